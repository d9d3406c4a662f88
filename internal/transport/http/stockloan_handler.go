package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/exporter"
	"counselfinder/internal/infrastructure"
	"counselfinder/internal/stockloan"
)

// StockLoanService is the slice of the service layer the stock loan
// handler uses.
type StockLoanService interface {
	Snapshot(ctx context.Context, refresh bool) (*stockloan.Snapshot, error)
}

// StockLoanHandler exposes the shortstock availability feed.
type StockLoanHandler struct {
	service      StockLoanService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStockLoanHandler creates a stock loan handler.
func NewStockLoanHandler(service StockLoanService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StockLoanHandler {
	return &StockLoanHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "stockloan_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the stock loan routes.
func (h *StockLoanHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Snapshot)

	return r
}

// Snapshot handles GET /api/stockloan. refresh=true bypasses the cache
// and format=csv downloads the full table.
func (h *StockLoanHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"

	snapshot, err := h.service.Snapshot(r.Context(), refresh)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "shortstock snapshot failed",
			slog.String("error", err.Error()),
			slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		headers, records := exporter.StockLoanTable(snapshot)
		data, err := exporter.RenderCSV(headers, records)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="shortstock.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"date":    snapshot.Date,
		"time":    snapshot.Time,
		"count":   len(snapshot.Records),
		"records": snapshot.Records,
	})
}
