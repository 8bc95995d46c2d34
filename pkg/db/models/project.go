package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// Project is a customer job that assignments can reference; the grid uses its
// name as the load-name fallback.
type Project struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"type:text;not null"`
	ClientName   *string             `gorm:"type:text"`
	Description  *string             `gorm:"type:text"`
	Status       enums.ProjectStatus `gorm:"type:project_status;not null;default:planned"`
	PlannedHours float64             `gorm:"not null;default:0"`
	StartDate    *time.Time          `gorm:"type:date"`
	EndDate      *time.Time          `gorm:"type:date"`
	CreatedAt    time.Time           `gorm:"type:timestamptz;default:now()"`
	UpdatedAt    time.Time           `gorm:"type:timestamptz;default:now()"`
}
