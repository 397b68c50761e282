package people

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/roster/backend/internal/middleware"
	"github.com/zhouzirui/roster/backend/internal/model/roster"
	peopleService "github.com/zhouzirui/roster/backend/internal/service/people"
	"github.com/zhouzirui/roster/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidID   = errors.New("invalid person id")
	errInvalidBody = errors.New("request body must be a JSON object")
)

// Handler serves the /people resource.
type Handler struct {
	svc    *peopleService.Service
	logger *zap.Logger
}

// New creates the people handler.
func New(svc *peopleService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the people routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/people", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.respondFailure(w, r, err, "error reading people data")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "error reading data")
		return
	}
	utils.RespondJSON(w, http.StatusOK, person)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePerson(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), payload)
	if err != nil {
		h.respondFailure(w, r, err, "error writing data")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := decodePerson(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	merged, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		h.respondFailure(w, r, err, "error writing data")
		return
	}
	utils.RespondJSON(w, http.StatusOK, merged)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "error writing data")
		return
	}
	utils.RespondNoContent(w)
}

// respondFailure maps service errors to status codes. Storage details stay in the log.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, peopleService.ErrPersonNotFound) {
		utils.RespondError(w, http.StatusNotFound, "person not found")
		return
	}

	h.logger.Error("people request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err),
	)
	utils.RespondError(w, http.StatusInternalServerError, message)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// decodePerson reads a single JSON object body. An empty body counts as {}.
func decodePerson(w http.ResponseWriter, r *http.Request) (roster.Person, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var payload roster.Person
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return roster.Person{}, nil
		}
		return nil, errInvalidBody
	}
	if payload == nil {
		return nil, errInvalidBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errInvalidBody
	}
	return payload, nil
}
