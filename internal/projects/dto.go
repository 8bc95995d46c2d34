package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// ProjectDTO exposes project data in API responses.
type ProjectDTO struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	ClientName   *string             `json:"client_name,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Status       enums.ProjectStatus `json:"status"`
	PlannedHours float64             `json:"planned_hours"`
	StartDate    *string             `json:"start_date,omitempty"`
	EndDate      *string             `json:"end_date,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CreateProjectDTO holds creation-time data for a new project.
type CreateProjectDTO struct {
	Name         string
	ClientName   *string
	Description  *string
	Status       *enums.ProjectStatus
	PlannedHours float64
	StartDate    *time.Time
	EndDate      *time.Time
}

// ProjectPage is one cursor page of projects.
type ProjectPage struct {
	Projects   []ProjectDTO `json:"projects"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

const dateLayout = "2006-01-02"

// FromModel maps the persisted project into a DTO.
func FromModel(m *models.Project) *ProjectDTO {
	if m == nil {
		return nil
	}
	dto := &ProjectDTO{
		ID:           m.ID,
		Name:         m.Name,
		ClientName:   m.ClientName,
		Description:  m.Description,
		Status:       m.Status,
		PlannedHours: m.PlannedHours,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.StartDate != nil {
		v := m.StartDate.Format(dateLayout)
		dto.StartDate = &v
	}
	if m.EndDate != nil {
		v := m.EndDate.Format(dateLayout)
		dto.EndDate = &v
	}
	return dto
}

// ToModel prepares the GORM model from the creation DTO, supplying defaults.
func (c CreateProjectDTO) ToModel() *models.Project {
	model := &models.Project{
		Name:         c.Name,
		ClientName:   c.ClientName,
		Description:  c.Description,
		Status:       enums.ProjectStatusPlanned,
		PlannedHours: c.PlannedHours,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
	}
	if c.Status != nil {
		model.Status = *c.Status
	}
	return model
}
