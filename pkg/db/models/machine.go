package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// Machine is a shop-floor machine that assignments are scheduled against.
type Machine struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"type:text;not null;uniqueIndex:idx_machines_name"`
	Model        string              `gorm:"type:text;not null"`
	SerialNumber *string             `gorm:"type:text"`
	Status       enums.MachineStatus `gorm:"type:machine_status;not null;default:active"`
	Location     *string             `gorm:"type:text"`
	Capacity     *string             `gorm:"type:text"`
	CreatedAt    time.Time           `gorm:"type:timestamptz;default:now()"`
	UpdatedAt    time.Time           `gorm:"type:timestamptz;default:now()"`
}
