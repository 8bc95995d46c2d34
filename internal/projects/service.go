package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
	"github.com/GoldenAltrax/VMC-Project/pkg/pagination"
)

type projectRepository interface {
	List(ctx context.Context, params pagination.Params) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, dto CreateProjectDTO) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service exposes project operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ProjectPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProjectDTO, error)
	Create(ctx context.Context, input CreateProjectDTO) (*ProjectDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateProjectInput captures the editable project fields.
type UpdateProjectInput struct {
	Name         *string
	ClientName   *string
	Description  *string
	Status       *enums.ProjectStatus
	PlannedHours *float64
	StartDate    *time.Time
	EndDate      *time.Time
}

type service struct {
	repo projectRepository
}

// NewService builds a project service with the provided repository.
func NewService(repo projectRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ProjectPage, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ProjectPage{Projects: make([]ProjectDTO, 0, limit)}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		page.Projects = append(page.Projects, *FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return FromModel(project), nil
}

func (s *service) Create(ctx context.Context, input CreateProjectDTO) (*ProjectDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PlannedHours < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "planned_hours must not be negative")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	project, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return FromModel(project), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		project.Name = name
	}
	if input.ClientName != nil {
		project.ClientName = cloneStringPtr(input.ClientName)
	}
	if input.Description != nil {
		project.Description = cloneStringPtr(input.Description)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		project.Status = *input.Status
	}
	if input.PlannedHours != nil {
		if *input.PlannedHours < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "planned_hours must not be negative")
		}
		project.PlannedHours = *input.PlannedHours
	}
	if input.StartDate != nil {
		d := *input.StartDate
		project.StartDate = &d
	}
	if input.EndDate != nil {
		d := *input.EndDate
		project.EndDate = &d
	}
	if err := validateDateRange(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return FromModel(project), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
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
