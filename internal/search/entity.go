package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"counselfinder/internal/edgar"
	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

// EntitySearch finds the public companies a lawyer or law firm appeared
// alongside in EDGAR filings. Hits are filtered to counsel-relevant
// filing types and collapsed to the most recent filing per company.
func (e *Engine) EntitySearch(ctx context.Context, mode domain.SearchMode, name string, start, end time.Time, rangeLabel string, progress Progress) (*domain.EntitySearchResult, error) {
	progress.emit("search", "Searching filings mentioning %q...", name)

	hits, err := e.source.FullTextSearch(ctx, name, start, end, edgar.DefaultMaxResults)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.EntityCompanyRow)
	for _, hit := range hits {
		if !domain.RelevantFilings[hit.FilingType] {
			continue
		}
		company, ticker := edgar.CleanDisplayName(hit.CompanyDisplay)
		if company == "" || company == "Unknown" {
			continue
		}

		row := domain.EntityCompanyRow{
			Company:    company,
			Ticker:     ticker,
			FilingType: hit.FilingType,
			FilingDate: hit.FilingDate,
		}
		if existing, ok := latest[company]; !ok || row.FilingDate > existing.FilingDate {
			latest[company] = row
		}
	}

	if len(latest) == 0 {
		return nil, fmt.Errorf("%w: no companies matched %q", apierrors.ErrNoFilingsFound, name)
	}

	rows := make([]domain.EntityCompanyRow, 0, len(latest))
	for _, row := range latest {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FilingDate != rows[j].FilingDate {
			return rows[i].FilingDate > rows[j].FilingDate
		}
		return rows[i].Company < rows[j].Company
	})

	progress.emit("search", "Found %d companies", len(rows))

	return &domain.EntitySearchResult{
		Mode:      mode,
		Query:     name,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		DateRange: rangeLabel,
		Rows:      rows,
	}, nil
}
