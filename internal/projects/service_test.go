package projects

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoldenAltrax/VMC-Project/pkg/db/models"
	"github.com/GoldenAltrax/VMC-Project/pkg/enums"
	pkgerrors "github.com/GoldenAltrax/VMC-Project/pkg/errors"
	"github.com/GoldenAltrax/VMC-Project/pkg/pagination"
)

type stubProjectRepo struct {
	projects map[uuid.UUID]*models.Project
	clock    time.Time
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{
		projects: map[uuid.UUID]*models.Project{},
		clock:    time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *stubProjectRepo) sorted() []models.Project {
	var out []models.Project
	for _, p := range s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (s *stubProjectRepo) List(ctx context.Context, params pagination.Params) ([]models.Project, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.LimitWithBuffer(params.Limit)

	var out []models.Project
	for _, p := range s.sorted() {
		if cursor != nil && !p.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *p
	return &cpy, nil
}

func (s *stubProjectRepo) Create(ctx context.Context, dto CreateProjectDTO) (*models.Project, error) {
	p := dto.ToModel()
	p.ID = uuid.New()
	p.CreatedAt = s.clock
	s.clock = s.clock.Add(time.Minute)
	s.projects[p.ID] = p
	return p, nil
}

func (s *stubProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if _, ok := s.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cpy := *project
	s.projects[project.ID] = &cpy
	return nil
}

func (s *stubProjectRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

func newProjectService(t *testing.T, repo projectRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateProjectDefaultsStatus(t *testing.T) {
	svc := newProjectService(t, newStubProjectRepo())

	dto, err := svc.Create(context.Background(), CreateProjectDTO{Name: "Gearbox Housings", PlannedHours: 120})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if dto.Status != enums.ProjectStatusPlanned {
		t.Fatalf("default status = %s", dto.Status)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newProjectService(t, newStubProjectRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateProjectDTO{Name: "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := svc.Create(ctx, CreateProjectDTO{Name: "P", PlannedHours: -1}); err == nil {
		t.Fatal("expected error for negative hours")
	}

	start := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -3)
	_, err := svc.Create(ctx, CreateProjectDTO{Name: "P", StartDate: &start, EndDate: &end})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestListProjectsPaginates(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(t, repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, CreateProjectDTO{Name: "Job"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first, err := svc.List(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(first.Projects))
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	second, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Projects) != 2 {
		t.Fatalf("expected 2 projects on page 2, got %d", len(second.Projects))
	}
	for _, p := range second.Projects {
		if p.ID == first.Projects[0].ID || p.ID == first.Projects[1].ID {
			t.Fatal("pages overlap")
		}
	}

	third, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(third.Projects) != 1 || third.NextCursor != "" {
		t.Fatalf("expected final page of 1 without cursor, got %d %q", len(third.Projects), third.NextCursor)
	}
}

func TestUpdateProject(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProjectDTO{Name: "Gearbox Housings"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := enums.ProjectStatusActive
	hours := 80.0
	updated, err := svc.Update(ctx, created.ID, UpdateProjectInput{Status: &status, PlannedHours: &hours})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != status || updated.PlannedHours != hours {
		t.Fatalf("fields not applied: %+v", updated)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	svc := newProjectService(t, newStubProjectRepo())
	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProjectDTO{Name: "Gearbox Housings"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.Delete(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
