package machines

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// MachineDTO exposes machine roster data in API responses.
type MachineDTO struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Model        string              `json:"model"`
	SerialNumber *string             `json:"serial_number,omitempty"`
	Status       enums.MachineStatus `json:"status"`
	Location     *string             `json:"location,omitempty"`
	Capacity     *string             `json:"capacity,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CreateMachineDTO holds creation-time data for a new machine.
type CreateMachineDTO struct {
	Name         string
	Model        string
	SerialNumber *string
	Status       *enums.MachineStatus
	Location     *string
	Capacity     *string
}

// FromModel maps the persisted machine into a DTO.
func FromModel(m *models.Machine) *MachineDTO {
	if m == nil {
		return nil
	}
	return &MachineDTO{
		ID:           m.ID,
		Name:         m.Name,
		Model:        m.Model,
		SerialNumber: m.SerialNumber,
		Status:       m.Status,
		Location:     m.Location,
		Capacity:     m.Capacity,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO, supplying defaults.
func (c CreateMachineDTO) ToModel() *models.Machine {
	model := &models.Machine{
		Name:         c.Name,
		Model:        c.Model,
		SerialNumber: c.SerialNumber,
		Status:       enums.MachineStatusActive,
		Location:     c.Location,
		Capacity:     c.Capacity,
	}
	if c.Status != nil {
		model.Status = *c.Status
	}
	return model
}
