package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/api/responses"
	"github.com/GoldenAltrax/VMC-Project/api/validators"
	"github.com/GoldenAltrax/VMC-Project/internal/projects"
	"github.com/GoldenAltrax/VMC-Project/internal/schedule"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
	"github.com/GoldenAltrax/VMC-Project/pkg/logger"
	"github.com/GoldenAltrax/VMC-Project/pkg/pagination"
)

// ProjectList returns a cursor page of projects, newest first.
func ProjectList(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProjectGet returns one project.
func ProjectGet(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		id, err := projectIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

type projectCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1"`
	ClientName   *string `json:"client_name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	PlannedHours float64 `json:"planned_hours,omitempty" validate:"gte=0"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
}

func (req projectCreateRequest) toInput() (projects.CreateProjectDTO, error) {
	input := projects.CreateProjectDTO{
		Name:         req.Name,
		ClientName:   req.ClientName,
		Description:  req.Description,
		PlannedHours: req.PlannedHours,
	}
	if req.Status != nil {
		status, err := enums.ParseProjectStatus(*req.Status)
		if err != nil {
			return projects.CreateProjectDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	var err error
	if input.StartDate, err = parseOptionalDate(req.StartDate, "start_date"); err != nil {
		return projects.CreateProjectDTO{}, err
	}
	if input.EndDate, err = parseOptionalDate(req.EndDate, "end_date"); err != nil {
		return projects.CreateProjectDTO{}, err
	}
	return input, nil
}

// ProjectCreate registers a new customer job.
func ProjectCreate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		var payload projectCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, project)
	}
}

type projectUpdateRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	ClientName   *string  `json:"client_name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Status       *string  `json:"status,omitempty"`
	PlannedHours *float64 `json:"planned_hours,omitempty" validate:"omitempty,gte=0"`
	StartDate    *string  `json:"start_date,omitempty"`
	EndDate      *string  `json:"end_date,omitempty"`
}

func (req projectUpdateRequest) toInput() (projects.UpdateProjectInput, error) {
	input := projects.UpdateProjectInput{
		Name:         req.Name,
		ClientName:   req.ClientName,
		Description:  req.Description,
		PlannedHours: req.PlannedHours,
	}
	if req.Status != nil {
		status, err := enums.ParseProjectStatus(*req.Status)
		if err != nil {
			return projects.UpdateProjectInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	var err error
	if input.StartDate, err = parseOptionalDate(req.StartDate, "start_date"); err != nil {
		return projects.UpdateProjectInput{}, err
	}
	if input.EndDate, err = parseOptionalDate(req.EndDate, "end_date"); err != nil {
		return projects.UpdateProjectInput{}, err
	}
	return input, nil
}

// ProjectUpdate adjusts the mutable project fields.
func ProjectUpdate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		id, err := projectIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload projectUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

// ProjectDelete removes a project; entries that referenced it fall back to
// their own load names.
func ProjectDelete(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		id, err := projectIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func parseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := schedule.ParseDate(*value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" must be YYYY-MM-DD")
	}
	return &parsed, nil
}

func projectIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "projectId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project id")
	}
	return id, nil
}
