package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/extract"
	"counselfinder/pkg/contracts/domain"
)

// CompanySearch finds the external law firms and lawyers named in a
// company's high-priority legal filings within the date range. Filings
// are processed concurrently; per-filing failures are counted, not
// fatal.
func (e *Engine) CompanySearch(ctx context.Context, ticker string, start, end time.Time, progress Progress) (*domain.CompanySearchResult, error) {
	if !e.llm.Enabled() {
		return nil, apierrors.ErrExtractionDisabled
	}

	identity, err := e.source.ResolveTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")
	progress.emit("resolve", "Finding lawyers for %s", identity.Name)
	progress.emit("resolve", "Date range: %s to %s", startStr, endStr)

	filings, err := e.source.Filings(ctx, identity.CIK, start, end)
	if err != nil {
		return nil, err
	}
	if len(filings) == 0 {
		return nil, fmt.Errorf("%w: %s between %s and %s",
			apierrors.ErrNoFilingsFound, identity.Ticker, startStr, endStr)
	}
	progress.emit("filings", "Found %d filings", len(filings))
	progress.emit("filings", "Processing %d filings in parallel...", len(filings))

	var (
		mu        sync.Mutex
		merged    = make(extract.FirmLawyers)
		processed int
		withText  int
		noText    int
		noCounsel int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for _, filing := range filings {
		g.Go(func() error {
			firms, err := e.processFiling(gctx, identity.CIK, identity.Name, filing)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			processed++
			if processed%5 == 0 {
				progress.emit("processing", "Progress: %d/%d filings processed...", processed, len(filings))
			}

			switch {
			case err == nil:
				withText++
				merged.Merge(firms)
			case errors.Is(err, apierrors.ErrNoDocumentText):
				noText++
			case errors.Is(err, apierrors.ErrNoCounselFound):
				noCounsel++
			default:
				e.logger.WarnContext(gctx, "filing processing failed",
					slog.String("filing_type", filing.Type),
					slog.String("filing_date", filing.Date),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress.emit("processing", "Results: %d filings with counsel, %d failed to extract, %d had no counsel",
		withText, noText, noCounsel)

	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: %s", apierrors.ErrNoCounselFound, identity.Ticker)
	}

	merged = extract.DeduplicateFirmLawyers(merged)

	return &domain.CompanySearchResult{
		Company:   identity,
		StartDate: startStr,
		EndDate:   endStr,
		Filings:   len(filings),
		Rows:      counselRows(merged),
	}, nil
}

// processFiling fetches one filing's text and runs both extraction
// passes. When neither pattern set nor LLM finds a pairing it falls
// back to a firm-only Legal Matters scan, then to the curated
// major-firm list.
func (e *Engine) processFiling(ctx context.Context, cik, companyName string, filing domain.Filing) (extract.FirmLawyers, error) {
	text, err := e.source.DocumentText(ctx, cik, filing)
	if err != nil {
		return nil, err
	}

	firms := extract.ExtractLawyers(text, companyName)

	llmFirms, err := e.llm.Extract(ctx, text, companyName)
	if err != nil {
		e.logger.WarnContext(ctx, "llm extraction failed, keeping regex results",
			slog.String("filing_type", filing.Type),
			slog.String("filing_date", filing.Date),
			slog.String("error", err.Error()),
		)
	} else {
		firms.Merge(llmFirms)
	}

	if len(firms) == 0 {
		if firm, ok := extract.ExtractFirmOnly(text, companyName); ok {
			firms.AddFirm(firm)
		}
	}
	if len(firms) == 0 {
		for _, firm := range extract.FindKnownFirms(text) {
			if !extract.IsNotLawFirm(firm, companyName) {
				firms.AddFirm(extract.NormalizeFirmName(firm))
			}
		}
	}
	if len(firms) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", apierrors.ErrNoCounselFound, filing.Type, filing.Date)
	}
	return firms, nil
}

// counselRows flattens the firm-to-lawyers map into sorted result rows.
// A firm without lawyers gets one row with an empty lawyer column.
func counselRows(firms extract.FirmLawyers) []domain.CompanyCounselRow {
	firmNames := make([]string, 0, len(firms))
	for firm := range firms {
		firmNames = append(firmNames, firm)
	}
	sort.Strings(firmNames)

	var rows []domain.CompanyCounselRow
	for _, firm := range firmNames {
		lawyers := make([]string, 0, len(firms[firm]))
		for lawyer := range firms[firm] {
			lawyers = append(lawyers, lawyer)
		}
		sort.Strings(lawyers)

		if len(lawyers) == 0 {
			rows = append(rows, domain.CompanyCounselRow{LawFirm: firm})
			continue
		}
		for _, lawyer := range lawyers {
			rows = append(rows, domain.CompanyCounselRow{LawFirm: firm, Lawyer: lawyer})
		}
	}
	return rows
}
