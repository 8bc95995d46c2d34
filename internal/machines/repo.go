package machines

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
)

// Repository handles machine persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to machine operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the full roster ordered by name. The weekly grid renders rows
// in this order.
func (r *Repository) List(ctx context.Context) ([]models.Machine, error) {
	var machines []models.Machine
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// FindByID loads a machine by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&machine).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

// Create persists a new machine row.
func (r *Repository) Create(ctx context.Context, dto CreateMachineDTO) (*models.Machine, error) {
	machine := dto.ToModel()
	if machine.ID == uuid.Nil {
		machine.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(machine).Error; err != nil {
		return nil, err
	}
	return machine, nil
}

// Update saves the provided machine.
func (r *Repository) Update(ctx context.Context, machine *models.Machine) error {
	if machine == nil {
		return fmt.Errorf("machine is required")
	}
	return r.db.WithContext(ctx).Save(machine).Error
}

// Delete removes the machine; its assignments cascade away with it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Machine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
