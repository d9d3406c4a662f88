package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/exporter"
	"counselfinder/internal/infrastructure"
	"counselfinder/internal/search"
	v1 "counselfinder/pkg/contracts/api/v1"
	"counselfinder/pkg/contracts/domain"
	"counselfinder/pkg/contracts/events"
)

// DefaultCompanyYears is the lookback applied to a company search when
// the request names neither a year count nor an explicit date range.
const DefaultCompanyYears = 5

const dateLayout = "2006-01-02"

// SearchEngine is the slice of the search engine the service layer uses.
type SearchEngine interface {
	CompanySearch(ctx context.Context, ticker string, start, end time.Time, progress search.Progress) (*domain.CompanySearchResult, error)
	EntitySearch(ctx context.Context, mode domain.SearchMode, name string, start, end time.Time, rangeLabel string, progress search.Progress) (*domain.EntitySearchResult, error)
	DetermineDateRange(ctx context.Context, term string, progress search.Progress) (search.DateRange, error)
	Companies(ctx context.Context, query string) ([]domain.CompanyIdentity, error)
}

// MarketCapEnricher joins result rows against the reference table.
type MarketCapEnricher interface {
	EnrichCompanyRows(ctx context.Context, ticker string, rows []domain.CompanyCounselRow) []domain.CompanyCounselRow
	EnrichEntityRows(ctx context.Context, rows []domain.EntityCompanyRow) []domain.EntityCompanyRow
}

// ProgressBroadcaster pushes search progress to connected WebSocket
// clients. The hub satisfies this; a nil broadcaster silences progress.
type ProgressBroadcaster interface {
	BroadcastProgress(event events.ProgressEvent)
}

// SearchRecorder records per-search metrics.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, mode string, duration time.Duration, err error)
	RecordFilings(ctx context.Context, count int)
	RecordExport(ctx context.Context, mode string)
}

// TableExporter persists a copy of each result table in the exports
// directory.
type TableExporter interface {
	WriteSimpleCSV(filePath string, headers []string, records [][]string) error
}

// SearchService coordinates a search end to end: window resolution,
// engine execution, market-cap enrichment, metrics, and progress events.
type SearchService struct {
	engine   SearchEngine
	enricher MarketCapEnricher
	hub      ProgressBroadcaster
	metrics  SearchRecorder
	exports  TableExporter
	logger   *slog.Logger
}

// NewSearchService creates a search service. The hub and metrics
// recorder may be nil.
func NewSearchService(engine SearchEngine, enricher MarketCapEnricher, hub ProgressBroadcaster, metrics SearchRecorder, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		engine:   engine,
		enricher: enricher,
		hub:      hub,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "search_service")),
	}
}

// WithExporter enables saving a CSV copy of each result table.
func (s *SearchService) WithExporter(exports TableExporter) *SearchService {
	s.exports = exports
	return s
}

// CompanySearch finds the law firms and lawyers representing a company
// in its recent SEC filings. The window defaults to the last
// DefaultCompanyYears years; an explicit start/end pair wins over a
// year count.
func (s *SearchService) CompanySearch(ctx context.Context, req v1.CompanySearchRequest) (*domain.CompanySearchResult, error) {
	years := req.Years
	if years == 0 {
		years = DefaultCompanyYears
	}
	start, end, err := resolveWindow(years, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	progress := s.progress(ctx, domain.SearchModeCompany)
	began := time.Now()
	result, err := s.engine.CompanySearch(ctx, req.Ticker, start, end, progress)
	s.record(ctx, domain.SearchModeCompany, began, err)
	if err != nil {
		s.broadcastError(ctx, domain.SearchModeCompany, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordFilings(ctx, result.Filings)
	}
	if s.enricher != nil {
		result.Rows = s.enricher.EnrichCompanyRows(ctx, result.Company.Ticker, result.Rows)
	}

	headers, records := exporter.CounselTable(result)
	s.saveExport(ctx, domain.SearchModeCompany,
		exporter.DownloadFileName(domain.SearchModeCompany, result.Company.Ticker), headers, records)

	s.broadcastComplete(ctx, domain.SearchModeCompany,
		fmt.Sprintf("Found %d counsel rows for %s", len(result.Rows), result.Company.Ticker))
	s.logger.InfoContext(ctx, "company search completed",
		slog.String("ticker", result.Company.Ticker),
		slog.Int("filings", result.Filings),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("duration", time.Since(began)),
	)
	return result, nil
}

// CompanyLookup matches companies in the SEC index by ticker or name,
// backing the company-picker autocomplete.
func (s *SearchService) CompanyLookup(ctx context.Context, query string) ([]domain.CompanyIdentity, error) {
	return s.engine.Companies(ctx, query)
}

// EntitySearch finds the public companies a lawyer or law firm has
// represented. With no years and no explicit dates the window is chosen
// adaptively from the filing volume of the search term.
func (s *SearchService) EntitySearch(ctx context.Context, mode domain.SearchMode, req v1.EntitySearchRequest) (*domain.EntitySearchResult, error) {
	if mode != domain.SearchModeLawyer && mode != domain.SearchModeLawFirm {
		return nil, apierrors.ErrValidation("mode", fmt.Sprintf("unsupported search mode %q", mode))
	}

	progress := s.progress(ctx, mode)

	var (
		start, end time.Time
		label      string
		err        error
	)
	switch {
	case req.StartDate != "" || req.EndDate != "":
		start, end, err = resolveWindow(DefaultCompanyYears, req.StartDate, req.EndDate)
	case req.Years > 0:
		start, end, err = resolveWindow(req.Years, "", "")
		label = fmt.Sprintf("%d years", req.Years)
	default:
		var rng search.DateRange
		rng, err = s.engine.DetermineDateRange(ctx, req.Name, progress)
		start, end, label = rng.Start, rng.End, rng.Label
	}
	if err != nil {
		return nil, err
	}

	began := time.Now()
	result, err := s.engine.EntitySearch(ctx, mode, req.Name, start, end, label, progress)
	s.record(ctx, mode, began, err)
	if err != nil {
		s.broadcastError(ctx, mode, err)
		return nil, err
	}

	if s.enricher != nil {
		result.Rows = s.enricher.EnrichEntityRows(ctx, result.Rows)
	}

	headers, records := exporter.EntityTable(result)
	s.saveExport(ctx, mode, exporter.DownloadFileName(mode, result.Query), headers, records)

	s.broadcastComplete(ctx, mode,
		fmt.Sprintf("Found %d companies for %q", len(result.Rows), result.Query))
	s.logger.InfoContext(ctx, "entity search completed",
		slog.String("mode", string(mode)),
		slog.String("query", result.Query),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("duration", time.Since(began)),
	)
	return result, nil
}

// resolveWindow turns request parameters into a concrete date window.
// Explicit dates win over a year count; a lone date bounds one side and
// the other side defaults to the year window (end) or today (start).
func resolveWindow(years int, startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-years, 0, 0)

	if startDate != "" {
		parsed, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, apierrors.ErrValidation("start_date", "must be formatted YYYY-MM-DD")
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, apierrors.ErrValidation("end_date", "must be formatted YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apierrors.ErrValidation("end_date", "must not be before start_date")
	}
	return start, end, nil
}

// progress bridges engine progress callbacks onto the WebSocket hub,
// stamping each event with the request trace ID. Callers outside an
// HTTP request get a generated one so clients can still correlate.
func (s *SearchService) progress(ctx context.Context, mode domain.SearchMode) search.Progress {
	if s.hub == nil {
		return nil
	}
	traceID := infrastructure.GetTraceID(ctx)
	if traceID == "" {
		traceID = infrastructure.GenerateTraceID()
	}
	return func(stage, message string) {
		event := events.NewProgress(string(mode), stage, message)
		event.TraceID = traceID
		s.hub.BroadcastProgress(event)
	}
}

func (s *SearchService) broadcastComplete(ctx context.Context, mode domain.SearchMode, message string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastProgress(events.ProgressEvent{
		Type:      events.TypeComplete,
		Mode:      string(mode),
		Message:   message,
		Level:     events.LevelSuccess,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
	})
}

func (s *SearchService) broadcastError(ctx context.Context, mode domain.SearchMode, err error) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastProgress(events.ProgressEvent{
		Type:      events.TypeError,
		Mode:      string(mode),
		Message:   err.Error(),
		Level:     events.LevelError,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
	})
}

// saveExport writes the table to the exports directory. Failures are
// logged, not returned; the response already carries the data.
func (s *SearchService) saveExport(ctx context.Context, mode domain.SearchMode, filename string, headers []string, records [][]string) {
	if s.exports == nil {
		return
	}
	if err := s.exports.WriteSimpleCSV(filename, headers, records); err != nil {
		s.logger.WarnContext(ctx, "failed to save export copy",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordExport(ctx, string(mode))
	}
}

func (s *SearchService) record(ctx context.Context, mode domain.SearchMode, began time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSearch(ctx, string(mode), time.Since(began), err)
}
