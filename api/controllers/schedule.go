package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/api/responses"
	"github.com/GoldenAltrax/VMC-Project/api/validators"
	"github.com/GoldenAltrax/VMC-Project/internal/schedule"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
	"github.com/GoldenAltrax/VMC-Project/pkg/logger"
)

// ScheduleWeek returns the weekly grid for the week containing week_start, or
// the current week when the parameter is absent.
func ScheduleWeek(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		ref, err := validators.ParseQueryDate(r, "week_start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := weekContext(r, logg, r.URL.Query().Get("week_start"))

		week, err := svc.GetWeek(ctx, ref)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, week)
	}
}

// ScheduleNavigate steps one week from the provided anchor date.
func ScheduleNavigate(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		current, err := validators.ParseQueryDate(r, "week_start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := weekContext(r, logg, r.URL.Query().Get("week_start"))

		direction := schedule.Direction(r.URL.Query().Get("direction"))
		week, err := svc.Navigate(ctx, current, direction)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, week)
	}
}

type entryMutationResponse struct {
	Entry *schedule.EntryDTO `json:"entry"`
	Week  *schedule.WeekDTO  `json:"week"`
}

type entryCreateRequest struct {
	MachineID    uuid.UUID  `json:"machine_id" validate:"required"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty"`
	Date         string     `json:"date" validate:"required"`
	StartTime    *string    `json:"start_time,omitempty"`
	EndTime      *string    `json:"end_time,omitempty"`
	LoadName     *string    `json:"load_name,omitempty"`
	PlannedHours *float64   `json:"planned_hours" validate:"required,gte=0"`
	Status       *string    `json:"status,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	OperatorName *string    `json:"operator_name,omitempty"`
}

func (req entryCreateRequest) toInput() (schedule.CreateEntryInput, error) {
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return schedule.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD")
	}

	input := schedule.CreateEntryInput{
		MachineID:    req.MachineID,
		ProjectID:    req.ProjectID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		LoadName:     sanitizeTextPtr(req.LoadName, maxLoadNameLen),
		Notes:        sanitizeTextPtr(req.Notes, maxNotesLen),
		OperatorName: sanitizeTextPtr(req.OperatorName, maxOperatorNameLen),
	}
	if req.PlannedHours != nil {
		input.PlannedHours = *req.PlannedHours
	}
	if req.Status != nil {
		status, err := enums.ParseAssignmentStatus(*req.Status)
		if err != nil {
			return schedule.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// ScheduleEntryCreate plans a new entry and returns it with the rebuilt week.
func ScheduleEntryCreate(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		var payload entryCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, week, err := svc.CreateEntry(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entryMutationResponse{Entry: entry, Week: week})
	}
}

type entryUpdateRequest struct {
	ProjectID       *uuid.UUID `json:"project_id,omitempty"`
	Date            *string    `json:"date,omitempty"`
	StartTime       *string    `json:"start_time,omitempty"`
	EndTime         *string    `json:"end_time,omitempty"`
	LoadName        *string    `json:"load_name,omitempty"`
	PlannedHours    *float64   `json:"planned_hours,omitempty" validate:"omitempty,gte=0"`
	ActualHours     *float64   `json:"actual_hours,omitempty" validate:"omitempty,gte=0"`
	Status          *string    `json:"status,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	OperatorName    *string    `json:"operator_name,omitempty"`
	ExpectedVersion *int       `json:"expected_version,omitempty" validate:"omitempty,gte=1"`
}

func (req entryUpdateRequest) toInput() (schedule.UpdateEntryInput, error) {
	input := schedule.UpdateEntryInput{
		ProjectID:       req.ProjectID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		LoadName:        sanitizeTextPtr(req.LoadName, maxLoadNameLen),
		PlannedHours:    req.PlannedHours,
		ActualHours:     req.ActualHours,
		Notes:           sanitizeTextPtr(req.Notes, maxNotesLen),
		OperatorName:    sanitizeTextPtr(req.OperatorName, maxOperatorNameLen),
		ExpectedVersion: req.ExpectedVersion,
	}
	if req.Date != nil {
		date, err := schedule.ParseDate(*req.Date)
		if err != nil {
			return schedule.UpdateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD")
		}
		input.Date = &date
	}
	if req.Status != nil {
		status, err := enums.ParseAssignmentStatus(*req.Status)
		if err != nil {
			return schedule.UpdateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// ScheduleEntryUpdate applies a partial edit to an entry.
func ScheduleEntryUpdate(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		id, err := entryIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entryContext(r, logg, id)

		var payload entryUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entry, week, err := svc.UpdateEntry(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entryMutationResponse{Entry: entry, Week: week})
	}
}

type logHoursRequest struct {
	ActualHours     *float64 `json:"actual_hours" validate:"required,gte=0"`
	ExpectedVersion *int     `json:"expected_version,omitempty" validate:"omitempty,gte=1"`
}

// ScheduleLogHours records worked hours against an entry.
func ScheduleLogHours(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		id, err := entryIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entryContext(r, logg, id)

		var payload logHoursRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := schedule.LogHoursInput{ExpectedVersion: payload.ExpectedVersion}
		if payload.ActualHours != nil {
			input.ActualHours = *payload.ActualHours
		}

		entry, week, err := svc.LogActualHours(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entryMutationResponse{Entry: entry, Week: week})
	}
}

// ScheduleEntryDelete removes an entry. Deleting an entry that no longer
// exists succeeds with deleted=false.
func ScheduleEntryDelete(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		id, err := entryIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entryContext(r, logg, id)

		var expectedVersion *int
		if raw := r.URL.Query().Get("expected_version"); raw != "" {
			version, parseErr := validators.ParseQueryInt(r, "expected_version", 0, 1, 1<<30)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, parseErr)
				return
			}
			expectedVersion = &version
		}

		result, err := svc.DeleteEntry(ctx, id, expectedVersion)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type copyWeekRequest struct {
	SourceWeekStart string `json:"source_week_start" validate:"required"`
	TargetWeekStart string `json:"target_week_start" validate:"required"`
	OnConflict      string `json:"on_conflict,omitempty"`
}

func (req copyWeekRequest) toInput() (schedule.CopyWeekInput, error) {
	source, err := schedule.ParseDate(req.SourceWeekStart)
	if err != nil {
		return schedule.CopyWeekInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "source_week_start must be YYYY-MM-DD")
	}
	target, err := schedule.ParseDate(req.TargetWeekStart)
	if err != nil {
		return schedule.CopyWeekInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "target_week_start must be YYYY-MM-DD")
	}
	return schedule.CopyWeekInput{
		SourceWeekStart: source,
		TargetWeekStart: target,
		OnConflict:      schedule.ConflictPolicy(req.OnConflict),
	}, nil
}

// ScheduleCopyWeek copies every entry of one week into another.
func ScheduleCopyWeek(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		var payload copyWeekRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := weekContext(r, logg, payload.SourceWeekStart)

		result, err := svc.CopyWeek(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

const (
	maxLoadNameLen     = 200
	maxNotesLen        = 2000
	maxOperatorNameLen = 120
)

func sanitizeTextPtr(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, maxLen)
	return &clean
}

func entryIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "entryId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry id")
	}
	return id, nil
}

func entryContext(r *http.Request, logg *logger.Logger, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithEntryID(r.Context(), id.String())
}

func weekContext(r *http.Request, logg *logger.Logger, weekStart string) context.Context {
	if logg == nil || weekStart == "" {
		return r.Context()
	}
	return logg.WithWeekStart(r.Context(), weekStart)
}
