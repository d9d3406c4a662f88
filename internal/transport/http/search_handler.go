package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/exporter"
	"counselfinder/internal/infrastructure"
	v1 "counselfinder/pkg/contracts/api/v1"
	"counselfinder/pkg/contracts/domain"
)

// SearchService is the slice of the service layer the search handler uses.
type SearchService interface {
	CompanySearch(ctx context.Context, req v1.CompanySearchRequest) (*domain.CompanySearchResult, error)
	EntitySearch(ctx context.Context, mode domain.SearchMode, req v1.EntitySearchRequest) (*domain.EntitySearchResult, error)
	CompanyLookup(ctx context.Context, query string) ([]domain.CompanyIdentity, error)
}

// StructValidator validates request structs against their tags.
type StructValidator interface {
	ValidateStruct(v interface{}) error
}

// SearchHandler handles the three search endpoints.
type SearchHandler struct {
	service      SearchService
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(service SearchService, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SearchHandler {
	return &SearchHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "search_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the search routes.
func (h *SearchHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/company", h.CompanySearch)
	r.Get("/lawyer", h.LawyerSearch)
	r.Get("/firm", h.FirmSearch)

	return r
}

// CompanySearch handles GET /api/search/company?ticker=AAPL. Tickers are
// uppercased before validation so ?ticker=aapl works.
func (h *SearchHandler) CompanySearch(w http.ResponseWriter, r *http.Request) {
	req := v1.CompanySearchRequest{
		Ticker:    strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker"))),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	years, ok := h.parseYears(w, r)
	if !ok {
		return
	}
	req.Years = years

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "company search requested",
		slog.String("ticker", req.Ticker),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
	)

	result, err := h.service.CompanySearch(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		headers, records := exporter.CounselTable(result)
		h.serveCSV(w, r, exporter.DownloadFileName(domain.SearchModeCompany, result.Company.Ticker), headers, records)
		return
	}

	render.JSON(w, r, v1.SearchResponse{
		Status: "success",
		Count:  len(result.Rows),
		Data:   result,
	})
}

// Companies handles GET /api/companies?q=app, the ticker autocomplete
// behind the company search box.
func (h *SearchHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.CompanyLookup(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, v1.SearchResponse{
		Status: "success",
		Count:  len(companies),
		Data:   companies,
	})
}

// LawyerSearch handles GET /api/search/lawyer?name=Jane+Doe.
func (h *SearchHandler) LawyerSearch(w http.ResponseWriter, r *http.Request) {
	h.entitySearch(w, r, domain.SearchModeLawyer)
}

// FirmSearch handles GET /api/search/firm?name=Cooley+LLP.
func (h *SearchHandler) FirmSearch(w http.ResponseWriter, r *http.Request) {
	h.entitySearch(w, r, domain.SearchModeLawFirm)
}

func (h *SearchHandler) entitySearch(w http.ResponseWriter, r *http.Request, mode domain.SearchMode) {
	req := v1.EntitySearchRequest{
		Name:      r.URL.Query().Get("name"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	years, ok := h.parseYears(w, r)
	if !ok {
		return
	}
	req.Years = years

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "entity search requested",
		slog.String("mode", string(mode)),
		slog.String("name", req.Name),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
	)

	result, err := h.service.EntitySearch(r.Context(), mode, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if wantsCSV(r) {
		headers, records := exporter.EntityTable(result)
		h.serveCSV(w, r, exporter.DownloadFileName(mode, result.Query), headers, records)
		return
	}

	render.JSON(w, r, v1.SearchResponse{
		Status: "success",
		Count:  len(result.Rows),
		Data:   result,
	})
}

// parseYears reads the optional years query parameter. Zero means "not
// supplied"; the service layer then picks a default or adaptive window.
func (h *SearchHandler) parseYears(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("years")
	if raw == "" {
		return 0, true
	}
	years, err := strconv.Atoi(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("years", "must be an integer"))
		return 0, false
	}
	return years, true
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

// serveCSV writes the table as a CSV attachment.
func (h *SearchHandler) serveCSV(w http.ResponseWriter, r *http.Request, filename string, headers []string, records [][]string) {
	data, err := exporter.RenderCSV(headers, records)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write CSV response",
			slog.String("error", err.Error()),
		)
	}
}
