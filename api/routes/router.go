package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoldenAltrax/VMC-Project/api/controllers"
	"github.com/GoldenAltrax/VMC-Project/api/middleware"
	"github.com/GoldenAltrax/VMC-Project/internal/machines"
	"github.com/GoldenAltrax/VMC-Project/internal/projects"
	"github.com/GoldenAltrax/VMC-Project/internal/schedule"
	"github.com/GoldenAltrax/VMC-Project/pkg/config"
	"github.com/GoldenAltrax/VMC-Project/pkg/db"
	"github.com/GoldenAltrax/VMC-Project/pkg/logger"
	"github.com/GoldenAltrax/VMC-Project/pkg/metrics"
	pkgredis "github.com/GoldenAltrax/VMC-Project/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisPinger controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	registry *prometheus.Registry,
	scheduleService schedule.Service,
	machineService machines.Service,
	projectService projects.Service,
) http.Handler {
	r := chi.NewRouter()

	var requestMetrics *metrics.RequestMetrics
	if registry != nil {
		requestMetrics = metrics.NewRequestMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.Metrics(requestMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/week", controllers.ScheduleWeek(scheduleService, logg))
			r.Get("/week/navigate", controllers.ScheduleNavigate(scheduleService, logg))
			r.Post("/copy-week", controllers.ScheduleCopyWeek(scheduleService, logg))
			r.Post("/entries", controllers.ScheduleEntryCreate(scheduleService, logg))
			r.Patch("/entries/{entryId}", controllers.ScheduleEntryUpdate(scheduleService, logg))
			r.Delete("/entries/{entryId}", controllers.ScheduleEntryDelete(scheduleService, logg))
			r.Post("/entries/{entryId}/hours", controllers.ScheduleLogHours(scheduleService, logg))
		})

		r.Route("/machines", func(r chi.Router) {
			r.Get("/", controllers.MachineList(machineService, logg))
			r.Post("/", controllers.MachineCreate(machineService, logg))
			r.Get("/{machineId}", controllers.MachineGet(machineService, logg))
			r.Patch("/{machineId}", controllers.MachineUpdate(machineService, logg))
			r.Delete("/{machineId}", controllers.MachineDelete(machineService, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.ProjectList(projectService, logg))
			r.Post("/", controllers.ProjectCreate(projectService, logg))
			r.Get("/{projectId}", controllers.ProjectGet(projectService, logg))
			r.Patch("/{projectId}", controllers.ProjectUpdate(projectService, logg))
			r.Delete("/{projectId}", controllers.ProjectDelete(projectService, logg))
		})
	})

	return r
}
