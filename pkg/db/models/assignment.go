package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// Assignment is one machine's planned (and optionally logged) workload for a
// single calendar date. Several assignments may share a (machine, date) pair.
type Assignment struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MachineID    uuid.UUID              `gorm:"type:uuid;not null;index:idx_assignments_machine_date,priority:1"`
	ProjectID    *uuid.UUID             `gorm:"type:uuid"`
	Date         time.Time              `gorm:"type:date;not null;index:idx_assignments_machine_date,priority:2;index:idx_assignments_date"`
	StartTime    *string                `gorm:"type:text"`
	EndTime      *string                `gorm:"type:text"`
	LoadName     *string                `gorm:"type:text"`
	PlannedHours float64                `gorm:"not null"`
	ActualHours  *float64
	Status       enums.AssignmentStatus `gorm:"type:assignment_status;not null;default:scheduled"`
	Notes        *string                `gorm:"type:text"`
	OperatorName *string                `gorm:"type:text"`

	// Version guards concurrent edits; updates and deletes that carry an
	// expected version fail on mismatch instead of silently overwriting.
	Version int `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"type:timestamptz;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()"`
}
