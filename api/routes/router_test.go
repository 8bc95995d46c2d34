package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GoldenAltrax/VMC-Project/internal/machines"
	"github.com/GoldenAltrax/VMC-Project/internal/projects"
	"github.com/GoldenAltrax/VMC-Project/internal/schedule"
	"github.com/GoldenAltrax/VMC-Project/pkg/config"
	"github.com/GoldenAltrax/VMC-Project/pkg/logger"
	"github.com/GoldenAltrax/VMC-Project/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubScheduleService struct{}

func emptyWeek() *schedule.WeekDTO {
	return &schedule.WeekDTO{WeekStart: "2024-06-03", WeekEnd: "2024-06-09", Machines: []schedule.MachineWeekDTO{}}
}

func (stubScheduleService) GetWeek(ctx context.Context, ref time.Time) (*schedule.WeekDTO, error) {
	return emptyWeek(), nil
}

func (stubScheduleService) Navigate(ctx context.Context, current time.Time, direction schedule.Direction) (*schedule.WeekDTO, error) {
	return emptyWeek(), nil
}

func (stubScheduleService) CreateEntry(ctx context.Context, input schedule.CreateEntryInput) (*schedule.EntryDTO, *schedule.WeekDTO, error) {
	return &schedule.EntryDTO{ID: uuid.New(), Date: input.Date.Format("2006-01-02"), Version: 1}, emptyWeek(), nil
}

func (stubScheduleService) UpdateEntry(ctx context.Context, id uuid.UUID, input schedule.UpdateEntryInput) (*schedule.EntryDTO, *schedule.WeekDTO, error) {
	return &schedule.EntryDTO{ID: id, Version: 2}, emptyWeek(), nil
}

func (stubScheduleService) LogActualHours(ctx context.Context, id uuid.UUID, input schedule.LogHoursInput) (*schedule.EntryDTO, *schedule.WeekDTO, error) {
	return &schedule.EntryDTO{ID: id, Version: 2}, emptyWeek(), nil
}

func (stubScheduleService) DeleteEntry(ctx context.Context, id uuid.UUID, expectedVersion *int) (*schedule.DeleteResultDTO, error) {
	return &schedule.DeleteResultDTO{ID: id, Deleted: true, Week: emptyWeek()}, nil
}

func (stubScheduleService) CopyWeek(ctx context.Context, input schedule.CopyWeekInput) (*schedule.CopyWeekResultDTO, error) {
	return &schedule.CopyWeekResultDTO{Week: emptyWeek()}, nil
}

type stubMachineService struct{}

func (stubMachineService) List(ctx context.Context) ([]machines.MachineDTO, error) {
	return []machines.MachineDTO{}, nil
}

func (stubMachineService) GetByID(ctx context.Context, id uuid.UUID) (*machines.MachineDTO, error) {
	return &machines.MachineDTO{ID: id}, nil
}

func (stubMachineService) Create(ctx context.Context, input machines.CreateMachineDTO) (*machines.MachineDTO, error) {
	return &machines.MachineDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubMachineService) Update(ctx context.Context, id uuid.UUID, input machines.UpdateMachineInput) (*machines.MachineDTO, error) {
	return &machines.MachineDTO{ID: id}, nil
}

func (stubMachineService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubProjectService struct{}

func (stubProjectService) List(ctx context.Context, params pagination.Params) (*projects.ProjectPage, error) {
	return &projects.ProjectPage{Projects: []projects.ProjectDTO{}}, nil
}

func (stubProjectService) GetByID(ctx context.Context, id uuid.UUID) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: id}, nil
}

func (stubProjectService) Create(ctx context.Context, input projects.CreateProjectDTO) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubProjectService) Update(ctx context.Context, id uuid.UUID, input projects.UpdateProjectInput) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: id}, nil
}

func (stubProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(registry *prometheus.Registry) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		nil, // redis pinger
		nil, // idempotency store
		registry,
		stubScheduleService{},
		stubMachineService{},
		stubProjectService{},
	)
}

func TestRouterServesScheduleRoutes(t *testing.T) {
	router := newTestRouter(nil)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"week", http.MethodGet, "/api/v1/schedule/week", "", http.StatusOK},
		{"navigate", http.MethodGet, "/api/v1/schedule/week/navigate?week_start=2024-06-03&direction=next", "", http.StatusOK},
		{"create entry", http.MethodPost, "/api/v1/schedule/entries", `{"machine_id":"` + uuid.NewString() + `","date":"2024-06-03","planned_hours":4}`, http.StatusCreated},
		{"update entry", http.MethodPatch, "/api/v1/schedule/entries/" + uuid.NewString(), `{"planned_hours":6}`, http.StatusOK},
		{"log hours", http.MethodPost, "/api/v1/schedule/entries/" + uuid.NewString() + "/hours", `{"actual_hours":3.5}`, http.StatusOK},
		{"delete entry", http.MethodDelete, "/api/v1/schedule/entries/" + uuid.NewString(), "", http.StatusOK},
		{"copy week", http.MethodPost, "/api/v1/schedule/copy-week", `{"source_week_start":"2024-06-03","target_week_start":"2024-06-10"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body == "" {
				req = httptest.NewRequest(tc.method, tc.target, nil)
			} else {
				req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestRouterServesMachineAndProjectRoutes(t *testing.T) {
	router := newTestRouter(nil)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"machine list", http.MethodGet, "/api/v1/machines/", "", http.StatusOK},
		{"machine create", http.MethodPost, "/api/v1/machines/", `{"name":"VMC-01","model":"Haas VF-2"}`, http.StatusCreated},
		{"machine get", http.MethodGet, "/api/v1/machines/" + uuid.NewString(), "", http.StatusOK},
		{"machine delete", http.MethodDelete, "/api/v1/machines/" + uuid.NewString(), "", http.StatusOK},
		{"project list", http.MethodGet, "/api/v1/projects/", "", http.StatusOK},
		{"project create", http.MethodPost, "/api/v1/projects/", `{"name":"Bracket run"}`, http.StatusCreated},
		{"project update", http.MethodPatch, "/api/v1/projects/" + uuid.NewString(), `{"name":"Bracket rev B"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body == "" {
				req = httptest.NewRequest(tc.method, tc.target, nil)
			} else {
				req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(nil)

	for _, target := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
		if got := resp.Header().Get("X-VMC-Env"); got != "test" {
			t.Fatalf("%s: env header = %q", target, got)
		}
	}
}

func TestRouterMetricsEndpointRequiresRegistry(t *testing.T) {
	withRegistry := newTestRouter(prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	withRegistry.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with registry got %d", resp.Code)
	}

	withoutRegistry := newTestRouter(nil)
	resp = httptest.NewRecorder()
	withoutRegistry.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry got %d", resp.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
