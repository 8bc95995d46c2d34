package machines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db"
	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
)

type machineRepository interface {
	List(ctx context.Context) ([]models.Machine, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Machine, error)
	Create(ctx context.Context, dto CreateMachineDTO) (*models.Machine, error)
	Update(ctx context.Context, machine *models.Machine) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes machine roster operations.
type Service interface {
	List(ctx context.Context) ([]MachineDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MachineDTO, error)
	Create(ctx context.Context, input CreateMachineDTO) (*MachineDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMachineInput) (*MachineDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateMachineInput captures the editable machine fields.
type UpdateMachineInput struct {
	Name         *string
	Model        *string
	SerialNumber *string
	Status       *enums.MachineStatus
	Location     *string
	Capacity     *string
}

type service struct {
	repo machineRepository
}

// NewService builds a machine service with the provided repository.
func NewService(repo machineRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("machine repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]MachineDTO, error) {
	machines, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list machines")
	}
	out := make([]MachineDTO, 0, len(machines))
	for i := range machines {
		out = append(out, *FromModel(&machines[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*MachineDTO, error) {
	machine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "machine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load machine")
	}
	return FromModel(machine), nil
}

func (s *service) Create(ctx context.Context, input CreateMachineDTO) (*MachineDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Model = strings.TrimSpace(input.Model); input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	machine, err := s.repo.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_machines_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "machine name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create machine")
	}
	return FromModel(machine), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMachineInput) (*MachineDTO, error) {
	machine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "machine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load machine")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		machine.Name = name
	}
	if input.Model != nil {
		model := strings.TrimSpace(*input.Model)
		if model == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model must not be empty")
		}
		machine.Model = model
	}
	if input.SerialNumber != nil {
		machine.SerialNumber = cloneStringPtr(input.SerialNumber)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		machine.Status = *input.Status
	}
	if input.Location != nil {
		machine.Location = cloneStringPtr(input.Location)
	}
	if input.Capacity != nil {
		machine.Capacity = cloneStringPtr(input.Capacity)
	}

	if err := s.repo.Update(ctx, machine); err != nil {
		if db.IsUniqueViolation(err, "idx_machines_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "machine name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update machine")
	}
	return FromModel(machine), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete machine")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "machine not found")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
