package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zhouzirui/roster/backend/internal/handler/department"
	"github.com/zhouzirui/roster/backend/internal/handler/people"
	"github.com/zhouzirui/roster/backend/internal/middleware"
	departmentService "github.com/zhouzirui/roster/backend/internal/service/department"
	peopleService "github.com/zhouzirui/roster/backend/internal/service/people"
	"github.com/zhouzirui/roster/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. A nil gatherer disables /metrics.
func NewRouter(peopleSvc *peopleService.Service, departmentSvc *departmentService.Service, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	people.New(peopleSvc, logger).RegisterRoutes(r)
	department.New(departmentSvc, logger).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
