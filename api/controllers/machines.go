package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoldenAltrax/VMC-Project/api/responses"
	"github.com/GoldenAltrax/VMC-Project/api/validators"
	"github.com/GoldenAltrax/VMC-Project/internal/machines"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
	"github.com/GoldenAltrax/VMC-Project/pkg/logger"
)

// MachineList returns the whole roster in grid row order.
func MachineList(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "machine service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"machines": list})
	}
}

// MachineGet returns one machine.
func MachineGet(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "machine service unavailable"))
			return
		}

		id, err := machineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := machineContext(r, logg, id)

		machine, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, machine)
	}
}

type machineCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1"`
	Model        string  `json:"model" validate:"required,min=1"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       *string `json:"status,omitempty"`
	Location     *string `json:"location,omitempty"`
	Capacity     *string `json:"capacity,omitempty"`
}

func (req machineCreateRequest) toInput() (machines.CreateMachineDTO, error) {
	input := machines.CreateMachineDTO{
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
		Capacity:     req.Capacity,
	}
	if req.Status != nil {
		status, err := enums.ParseMachineStatus(*req.Status)
		if err != nil {
			return machines.CreateMachineDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// MachineCreate adds a machine to the roster.
func MachineCreate(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "machine service unavailable"))
			return
		}

		var payload machineCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machine, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, machine)
	}
}

type machineUpdateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Model        *string `json:"model,omitempty" validate:"omitempty,min=1"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       *string `json:"status,omitempty"`
	Location     *string `json:"location,omitempty"`
	Capacity     *string `json:"capacity,omitempty"`
}

func (req machineUpdateRequest) toInput() (machines.UpdateMachineInput, error) {
	input := machines.UpdateMachineInput{
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
		Capacity:     req.Capacity,
	}
	if req.Status != nil {
		status, err := enums.ParseMachineStatus(*req.Status)
		if err != nil {
			return machines.UpdateMachineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// MachineUpdate adjusts the mutable machine fields.
func MachineUpdate(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "machine service unavailable"))
			return
		}

		id, err := machineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := machineContext(r, logg, id)

		var payload machineUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		machine, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, machine)
	}
}

// MachineDelete removes a machine and its scheduled entries.
func MachineDelete(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "machine service unavailable"))
			return
		}

		id, err := machineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := machineContext(r, logg, id)

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func machineIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "machineId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid machine id")
	}
	return id, nil
}

func machineContext(r *http.Request, logg *logger.Logger, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithMachineID(r.Context(), id.String())
}
