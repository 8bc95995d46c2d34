package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
)

type assignmentRepository interface {
	ListWeek(ctx context.Context, weekStart time.Time) ([]models.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment, expectedVersion int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID, expectedVersion *int) (bool, error)
}

type machinesRepository interface {
	List(ctx context.Context) ([]models.Machine, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Machine, error)
}

type projectsRepository interface {
	ListAll(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// Service exposes the weekly planning operations.
type Service interface {
	GetWeek(ctx context.Context, ref time.Time) (*WeekDTO, error)
	Navigate(ctx context.Context, current time.Time, direction Direction) (*WeekDTO, error)
	CreateEntry(ctx context.Context, input CreateEntryInput) (*EntryDTO, *WeekDTO, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*EntryDTO, *WeekDTO, error)
	LogActualHours(ctx context.Context, id uuid.UUID, input LogHoursInput) (*EntryDTO, *WeekDTO, error)
	DeleteEntry(ctx context.Context, id uuid.UUID, expectedVersion *int) (*DeleteResultDTO, error)
	CopyWeek(ctx context.Context, input CopyWeekInput) (*CopyWeekResultDTO, error)
}

// Direction names a one-week navigation step.
type Direction string

const (
	DirectionPrev    Direction = "prev"
	DirectionNext    Direction = "next"
	DirectionCurrent Direction = "current"
)

// IsValid reports whether the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionPrev || d == DirectionNext || d == DirectionCurrent
}

type service struct {
	repo     assignmentRepository
	machines machinesRepository
	projects projectsRepository
	now      func() time.Time
}

// NewService builds a schedule service with the provided repositories.
func NewService(repo assignmentRepository, machines machinesRepository, projects projectsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if machines == nil {
		return nil, fmt.Errorf("machines repository required")
	}
	if projects == nil {
		return nil, fmt.Errorf("projects repository required")
	}
	return &service{
		repo:     repo,
		machines: machines,
		projects: projects,
		now:      time.Now,
	}, nil
}

// CreateEntryInput captures the data required to plan a new entry.
type CreateEntryInput struct {
	MachineID    uuid.UUID
	ProjectID    *uuid.UUID
	Date         time.Time
	StartTime    *string
	EndTime      *string
	LoadName     *string
	PlannedHours float64
	Status       *enums.AssignmentStatus
	Notes        *string
	OperatorName *string
}

// UpdateEntryInput captures the editable entry fields; nil pointers leave the
// stored value untouched. The machine an entry belongs to is immutable.
type UpdateEntryInput struct {
	ProjectID       *uuid.UUID
	Date            *time.Time
	StartTime       *string
	EndTime         *string
	LoadName        *string
	PlannedHours    *float64
	ActualHours     *float64
	Status          *enums.AssignmentStatus
	Notes           *string
	OperatorName    *string
	ExpectedVersion *int
}

// LogHoursInput records worked hours against an entry. It deliberately
// carries nothing else: logging hours must not touch any other field.
type LogHoursInput struct {
	ActualHours     float64
	ExpectedVersion *int
}

// CopyWeekInput drives a whole-week copy.
type CopyWeekInput struct {
	SourceWeekStart time.Time
	TargetWeekStart time.Time
	OnConflict      ConflictPolicy
}

func (s *service) GetWeek(ctx context.Context, ref time.Time) (*WeekDTO, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	return s.buildWeek(ctx, WeekStart(ref))
}

func (s *service) Navigate(ctx context.Context, current time.Time, direction Direction) (*WeekDTO, error) {
	if !direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid direction")
	}
	if current.IsZero() {
		current = s.now()
	}

	var target time.Time
	switch direction {
	case DirectionPrev:
		target = AddWeeks(WeekStart(current), -1)
	case DirectionNext:
		target = AddWeeks(WeekStart(current), 1)
	default:
		target = WeekStart(s.now())
	}
	return s.buildWeek(ctx, target)
}

func (s *service) CreateEntry(ctx context.Context, input CreateEntryInput) (*EntryDTO, *WeekDTO, error) {
	if input.MachineID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "machine_id is required")
	}
	if input.Date.IsZero() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if input.PlannedHours < 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "planned_hours must not be negative")
	}
	if err := validateTimeRange(input.StartTime, input.EndTime); err != nil {
		return nil, nil, err
	}

	status := enums.AssignmentStatusScheduled
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		status = *input.Status
	}

	if _, err := s.machines.FindByID(ctx, input.MachineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "machine not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load machine")
	}
	if input.ProjectID != nil {
		if _, err := s.projects.FindByID(ctx, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
		}
	}

	assignment := &models.Assignment{
		MachineID:    input.MachineID,
		ProjectID:    input.ProjectID,
		Date:         NormalizeDate(input.Date),
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		LoadName:     input.LoadName,
		PlannedHours: input.PlannedHours,
		Status:       status,
		Notes:        input.Notes,
		OperatorName: input.OperatorName,
		Version:      1,
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create entry")
	}

	return s.entryWithWeek(ctx, assignment)
}

func (s *service) UpdateEntry(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*EntryDTO, *WeekDTO, error) {
	assignment, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	expected := assignment.Version
	if input.ExpectedVersion != nil {
		if *input.ExpectedVersion != assignment.Version {
			return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "entry was modified by another writer").
				WithDetails(map[string]int{"current_version": assignment.Version})
		}
		expected = *input.ExpectedVersion
	}

	if input.ProjectID != nil {
		if _, err := s.projects.FindByID(ctx, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
		}
		assignment.ProjectID = input.ProjectID
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "date must not be empty")
		}
		assignment.Date = NormalizeDate(*input.Date)
	}
	if input.StartTime != nil {
		assignment.StartTime = cloneStringPtr(input.StartTime)
	}
	if input.EndTime != nil {
		assignment.EndTime = cloneStringPtr(input.EndTime)
	}
	if err := validateTimeRange(assignment.StartTime, assignment.EndTime); err != nil {
		return nil, nil, err
	}
	if input.LoadName != nil {
		assignment.LoadName = cloneStringPtr(input.LoadName)
	}
	if input.PlannedHours != nil {
		if *input.PlannedHours < 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "planned_hours must not be negative")
		}
		assignment.PlannedHours = *input.PlannedHours
	}
	if input.ActualHours != nil {
		if *input.ActualHours < 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "actual_hours must not be negative")
		}
		hours := *input.ActualHours
		assignment.ActualHours = &hours
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		assignment.Status = *input.Status
	}
	if input.Notes != nil {
		assignment.Notes = cloneStringPtr(input.Notes)
	}
	if input.OperatorName != nil {
		assignment.OperatorName = cloneStringPtr(input.OperatorName)
	}

	return s.saveEntry(ctx, assignment, expected)
}

func (s *service) LogActualHours(ctx context.Context, id uuid.UUID, input LogHoursInput) (*EntryDTO, *WeekDTO, error) {
	if input.ActualHours < 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "actual_hours must not be negative")
	}

	assignment, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	expected := assignment.Version
	if input.ExpectedVersion != nil {
		if *input.ExpectedVersion != assignment.Version {
			return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "entry was modified by another writer").
				WithDetails(map[string]int{"current_version": assignment.Version})
		}
		expected = *input.ExpectedVersion
	}

	// Only actual_hours changes here; status transitions go through
	// UpdateEntry.
	hours := input.ActualHours
	assignment.ActualHours = &hours

	return s.saveEntry(ctx, assignment, expected)
}

func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID, expectedVersion *int) (*DeleteResultDTO, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deleting an absent entry is a no-op. There is no date to
			// anchor a rebuild on, so no grid is returned.
			return &DeleteResultDTO{ID: id, Deleted: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load entry")
	}

	deleted, err := s.repo.Delete(ctx, id, expectedVersion)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete entry")
	}
	if !deleted && expectedVersion != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "entry was modified by another writer").
			WithDetails(map[string]int{"current_version": assignment.Version})
	}

	week, err := s.buildWeek(ctx, WeekStart(assignment.Date))
	if err != nil {
		return nil, err
	}
	return &DeleteResultDTO{ID: id, Deleted: deleted, Week: week}, nil
}

func (s *service) CopyWeek(ctx context.Context, input CopyWeekInput) (*CopyWeekResultDTO, error) {
	if input.SourceWeekStart.IsZero() || input.TargetWeekStart.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and target weeks are required")
	}
	policy := input.OnConflict
	if policy == "" {
		policy = ConflictAppend
	}
	if !policy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid on_conflict policy")
	}

	// Source and target may resolve to the same week; the copy then
	// duplicates every entry in place.
	source := WeekStart(input.SourceWeekStart)
	target := WeekStart(input.TargetWeekStart)

	entries, err := s.repo.ListWeek(ctx, source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list source week")
	}

	occupied := map[gridKey]bool{}
	if policy == ConflictSkip {
		existing, err := s.repo.ListWeek(ctx, target)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list target week")
		}
		for _, e := range existing {
			occupied[gridKey{machineID: e.MachineID, date: FormatDate(e.Date)}] = true
		}
	}

	result := &CopyWeekResultDTO{
		SourceWeekStart: FormatDate(source),
		TargetWeekStart: FormatDate(target),
		Items:           make([]CopyItemResultDTO, 0, len(entries)),
	}

	var failures error
	for i := range entries {
		entry := entries[i]
		// Weekday offset within the week is preserved across the copy.
		offset := int(NormalizeDate(entry.Date).Sub(source).Hours() / 24)
		targetDate := target.AddDate(0, 0, offset)

		item := CopyItemResultDTO{
			SourceID:   entry.ID,
			MachineID:  entry.MachineID,
			SourceDate: FormatDate(entry.Date),
			TargetDate: FormatDate(targetDate),
		}

		if policy == ConflictSkip && occupied[gridKey{machineID: entry.MachineID, date: item.TargetDate}] {
			item.Skipped = true
			result.Skipped++
			result.Items = append(result.Items, item)
			continue
		}

		// Copies start life unworked: actual hours cleared, status reset.
		copied := &models.Assignment{
			MachineID:    entry.MachineID,
			ProjectID:    entry.ProjectID,
			Date:         targetDate,
			StartTime:    cloneStringPtr(entry.StartTime),
			EndTime:      cloneStringPtr(entry.EndTime),
			LoadName:     cloneStringPtr(entry.LoadName),
			PlannedHours: entry.PlannedHours,
			ActualHours:  nil,
			Status:       enums.AssignmentStatusScheduled,
			Notes:        cloneStringPtr(entry.Notes),
			OperatorName: cloneStringPtr(entry.OperatorName),
			Version:      1,
		}

		if err := s.repo.Create(ctx, copied); err != nil {
			item.Error = err.Error()
			result.Failed++
			failures = multierr.Append(failures, fmt.Errorf("copy entry %s: %w", entry.ID, err))
		} else {
			id := copied.ID
			item.CopyID = &id
			result.Copied++
		}
		result.Items = append(result.Items, item)
	}

	if failures != nil && result.Copied == 0 && result.Skipped == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "copy week")
	}

	week, err := s.buildWeek(ctx, target)
	if err != nil {
		return nil, err
	}
	result.Week = week

	if failures != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodePartialBatch, failures, "some entries failed to copy").
			WithDetails(result.Items)
	}
	return result, nil
}

func (s *service) buildWeek(ctx context.Context, weekStart time.Time) (*WeekDTO, error) {
	assignments, err := s.repo.ListWeek(ctx, weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list week")
	}
	machines, err := s.machines.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list machines")
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return BuildGrid(weekStart, machines, assignments, projects), nil
}

func (s *service) loadEntry(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load entry")
	}
	return assignment, nil
}

func (s *service) saveEntry(ctx context.Context, assignment *models.Assignment, expectedVersion int) (*EntryDTO, *WeekDTO, error) {
	updated, err := s.repo.Update(ctx, assignment, expectedVersion)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update entry")
	}
	if !updated {
		return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "entry was modified by another writer")
	}
	return s.entryWithWeek(ctx, assignment)
}

func (s *service) entryWithWeek(ctx context.Context, assignment *models.Assignment) (*EntryDTO, *WeekDTO, error) {
	week, err := s.buildWeek(ctx, WeekStart(assignment.Date))
	if err != nil {
		return nil, nil, err
	}

	projectNames := map[uuid.UUID]string{}
	if assignment.ProjectID != nil {
		if project, err := s.projects.FindByID(ctx, *assignment.ProjectID); err == nil && project != nil {
			projectNames[project.ID] = project.Name
		}
	}
	return FromModel(assignment, projectNames), week, nil
}

// validateTimeRange rejects HH:MM pairs where the shift would end before it
// starts. Open-ended ranges are allowed.
func validateTimeRange(start, end *string) error {
	if start != nil && !isClockTime(*start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_time must be HH:MM")
	}
	if end != nil && !isClockTime(*end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_time must be HH:MM")
	}
	if start != nil && end != nil && *end < *start {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_time must not precede start_time")
	}
	return nil
}

func isClockTime(value string) bool {
	if _, err := time.Parse("15:04", value); err != nil {
		return false
	}
	return strings.Count(value, ":") == 1
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
