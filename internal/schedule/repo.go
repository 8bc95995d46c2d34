package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
)

// Repository handles assignment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to assignment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListWeek returns every assignment dated within the seven days starting at
// weekStart, ordered for deterministic grid assembly.
func (r *Repository) ListWeek(ctx context.Context, weekStart time.Time) ([]models.Assignment, error) {
	start := NormalizeDate(weekStart)
	end := start.AddDate(0, 0, 7)

	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC, start_time ASC, created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByID loads one assignment by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create persists a new assignment row and fills in generated columns.
func (r *Repository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment is required")
	}
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	if assignment.Version == 0 {
		assignment.Version = 1
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

// Update saves the assignment only while its stored version still matches
// expectedVersion, bumping the version on success. A false return with a nil
// error means another writer got there first.
func (r *Repository) Update(ctx context.Context, assignment *models.Assignment, expectedVersion int) (bool, error) {
	if assignment == nil {
		return false, fmt.Errorf("assignment is required")
	}

	assignment.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND version = ?", assignment.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(assignment)
	if res.Error != nil {
		assignment.Version = expectedVersion
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		assignment.Version = expectedVersion
		return false, nil
	}
	return true, nil
}

// Delete removes the assignment guarded by expectedVersion; pass nil to
// delete regardless of version. A false return with a nil error means no row
// matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, expectedVersion *int) (bool, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}
	res := query.Delete(&models.Assignment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
