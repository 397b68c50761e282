package department

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	departmentService "github.com/zhouzirui/roster/backend/internal/service/department"
	"github.com/zhouzirui/roster/backend/pkg/utils"
)

// Handler serves the read-only /departments resource.
type Handler struct {
	svc    *departmentService.Service
	logger *zap.Logger
}

func New(svc *departmentService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts GET /departments.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/departments", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	departments, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list departments", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "error reading departments data")
		return
	}
	utils.RespondJSON(w, http.StatusOK, departments)
}
