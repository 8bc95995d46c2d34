package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
)

// untitledLoad is the display name used when an entry has neither a load
// name nor a linked project.
const untitledLoad = "Untitled"

// ConflictPolicy controls how a week copy treats target weeks that already
// have entries.
type ConflictPolicy string

const (
	// ConflictAppend adds copied entries alongside existing ones.
	ConflictAppend ConflictPolicy = "append"
	// ConflictSkip drops a copy when the target machine/day already has entries.
	ConflictSkip ConflictPolicy = "skip"
)

// IsValid reports whether the policy is a known value.
func (p ConflictPolicy) IsValid() bool {
	return p == ConflictAppend || p == ConflictSkip
}

// EntryDTO is the API shape of one schedule entry.
type EntryDTO struct {
	ID           uuid.UUID              `json:"id"`
	MachineID    uuid.UUID              `json:"machine_id"`
	ProjectID    *uuid.UUID             `json:"project_id,omitempty"`
	Date         string                 `json:"date"`
	StartTime    *string                `json:"start_time,omitempty"`
	EndTime      *string                `json:"end_time,omitempty"`
	LoadName     string                 `json:"load_name"`
	PlannedHours float64                `json:"planned_hours"`
	ActualHours  *float64               `json:"actual_hours,omitempty"`
	Status       enums.AssignmentStatus `json:"status"`
	Notes        *string                `json:"notes,omitempty"`
	OperatorName *string                `json:"operator_name,omitempty"`
	Version      int                    `json:"version"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// DayScheduleDTO groups one machine's entries for a single calendar day.
type DayScheduleDTO struct {
	Date              string     `json:"date"`
	DayName           string     `json:"day_name"`
	Entries           []EntryDTO `json:"entries"`
	TotalPlannedHours float64    `json:"total_planned_hours"`
	TotalActualHours  float64    `json:"total_actual_hours"`
}

// MachineWeekDTO is one grid row: a machine and its seven day columns.
type MachineWeekDTO struct {
	MachineID          uuid.UUID           `json:"machine_id"`
	MachineName        string              `json:"machine_name"`
	MachineStatus      enums.MachineStatus `json:"machine_status"`
	Days               []DayScheduleDTO    `json:"days"`
	WeeklyPlannedHours float64             `json:"weekly_planned_hours"`
	WeeklyActualHours  float64             `json:"weekly_actual_hours"`
}

// WeekDTO is the full weekly schedule grid returned to clients.
type WeekDTO struct {
	WeekStart string           `json:"week_start"`
	WeekEnd   string           `json:"week_end"`
	Machines  []MachineWeekDTO `json:"machines"`
}

// DeleteResultDTO reports the outcome of an entry deletion. Deleting an
// absent entry is not an error; Deleted is false in that case.
// DeleteResultDTO reports whether a delete removed anything. Week is the
// rebuilt grid of the deleted entry's week; it is absent when the entry was
// already gone.
type DeleteResultDTO struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
	Week    *WeekDTO  `json:"week,omitempty"`
}

// CopyItemResultDTO describes the fate of a single entry during a week copy.
type CopyItemResultDTO struct {
	SourceID   uuid.UUID  `json:"source_id"`
	CopyID     *uuid.UUID `json:"copy_id,omitempty"`
	MachineID  uuid.UUID  `json:"machine_id"`
	SourceDate string     `json:"source_date"`
	TargetDate string     `json:"target_date"`
	Skipped    bool       `json:"skipped"`
	Error      string     `json:"error,omitempty"`
}

// CopyWeekResultDTO summarizes a whole-week copy operation.
type CopyWeekResultDTO struct {
	SourceWeekStart string              `json:"source_week_start"`
	TargetWeekStart string              `json:"target_week_start"`
	Copied          int                 `json:"copied"`
	Skipped         int                 `json:"skipped"`
	Failed          int                 `json:"failed"`
	Items           []CopyItemResultDTO `json:"items"`
	Week            *WeekDTO            `json:"week"`
}

// FromModel maps a persisted assignment into its API shape, resolving the
// display load name from the linked project when the entry has none.
func FromModel(m *models.Assignment, projectNames map[uuid.UUID]string) *EntryDTO {
	if m == nil {
		return nil
	}

	dto := &EntryDTO{
		ID:           m.ID,
		MachineID:    m.MachineID,
		ProjectID:    m.ProjectID,
		Date:         FormatDate(m.Date),
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		LoadName:     untitledLoad,
		PlannedHours: m.PlannedHours,
		ActualHours:  m.ActualHours,
		Status:       m.Status,
		Notes:        m.Notes,
		OperatorName: m.OperatorName,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.LoadName != nil && *m.LoadName != "" {
		dto.LoadName = *m.LoadName
	} else if m.ProjectID != nil {
		if name, ok := projectNames[*m.ProjectID]; ok && name != "" {
			dto.LoadName = name
		}
	}

	return dto
}
