package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
)

type gridKey struct {
	machineID uuid.UUID
	date      string
}

// BuildGrid assembles the Machine x Day schedule grid for one week. Every
// machine appears even with zero assignments, every day column is present
// even when empty, and entries within a day keep ascending start-time order.
// Assignments for machines missing from the roster are dropped.
func BuildGrid(weekStart time.Time, machines []models.Machine, assignments []models.Assignment, projects []models.Project) *WeekDTO {
	start := WeekStart(weekStart)
	dates := WeekDates(start)

	projectNames := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	byCell := make(map[gridKey][]models.Assignment, len(assignments))
	for _, a := range assignments {
		key := gridKey{machineID: a.MachineID, date: FormatDate(a.Date)}
		byCell[key] = append(byCell[key], a)
	}
	for key := range byCell {
		cell := byCell[key]
		sort.SliceStable(cell, func(i, j int) bool {
			return lessByStartTime(cell[i], cell[j])
		})
	}

	week := &WeekDTO{
		WeekStart: FormatDate(start),
		WeekEnd:   FormatDate(WeekEnd(start)),
		Machines:  make([]MachineWeekDTO, 0, len(machines)),
	}

	for _, machine := range machines {
		row := MachineWeekDTO{
			MachineID:     machine.ID,
			MachineName:   machine.Name,
			MachineStatus: machine.Status,
			Days:          make([]DayScheduleDTO, 0, len(dates)),
		}

		for _, day := range dates {
			dayKey := FormatDate(day)
			cell := byCell[gridKey{machineID: machine.ID, date: dayKey}]

			daySchedule := DayScheduleDTO{
				Date:    dayKey,
				DayName: day.Weekday().String(),
				Entries: make([]EntryDTO, 0, len(cell)),
			}
			for i := range cell {
				entry := FromModel(&cell[i], projectNames)
				daySchedule.Entries = append(daySchedule.Entries, *entry)
				daySchedule.TotalPlannedHours += entry.PlannedHours
				if entry.ActualHours != nil {
					daySchedule.TotalActualHours += *entry.ActualHours
				}
			}

			row.WeeklyPlannedHours += daySchedule.TotalPlannedHours
			row.WeeklyActualHours += daySchedule.TotalActualHours
			row.Days = append(row.Days, daySchedule)
		}

		week.Machines = append(week.Machines, row)
	}

	return week
}

// lessByStartTime orders entries within a day column. Entries without a start
// time sort after timed ones; creation time breaks remaining ties so repeated
// builds stay stable.
func lessByStartTime(a, b models.Assignment) bool {
	switch {
	case a.StartTime == nil && b.StartTime == nil:
		return a.CreatedAt.Before(b.CreatedAt)
	case a.StartTime == nil:
		return false
	case b.StartTime == nil:
		return true
	case *a.StartTime != *b.StartTime:
		return *a.StartTime < *b.StartTime
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
