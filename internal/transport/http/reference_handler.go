package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/infrastructure"
	"counselfinder/pkg/contracts/domain"
)

// ReferenceService is the slice of the service layer the reference
// handler uses.
type ReferenceService interface {
	Status(ctx context.Context) domain.ReferenceStatus
	Reload(ctx context.Context) (domain.ReferenceStatus, error)
}

// ReferenceHandler exposes the market-cap reference file endpoints.
type ReferenceHandler struct {
	service      ReferenceService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReferenceHandler creates a reference handler.
func NewReferenceHandler(service ReferenceService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReferenceHandler {
	return &ReferenceHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "reference_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the reference routes.
func (h *ReferenceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Status)
	r.Post("/reload", h.Reload)

	return r
}

// Status handles GET /api/reference.
func (h *ReferenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status(r.Context()))
}

// Reload handles POST /api/reference/reload.
func (h *ReferenceHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "reference reload requested",
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
	)

	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}
