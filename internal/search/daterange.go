package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"counselfinder/internal/edgar"
	"counselfinder/pkg/contracts/domain"
)

// TargetCompanies is the unique-company count the adaptive date range
// tries to stay under.
const TargetCompanies = 100

// DateRange is a resolved search window with its human-readable label.
type DateRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// CountUniqueCompanies counts distinct ticker-bearing companies whose
// relevant filings mention the term within the window.
func (e *Engine) CountUniqueCompanies(ctx context.Context, term string, from, to time.Time) (int, error) {
	hits, err := e.source.FullTextSearch(ctx, term, from, to, edgar.DefaultMaxResults)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	for _, hit := range hits {
		if !domain.RelevantFilings[hit.FilingType] {
			continue
		}
		name, ticker := edgar.CleanDisplayName(hit.CompanyDisplay)
		if name == "" || ticker == "" {
			continue
		}
		seen[name] = true
	}
	return len(seen), nil
}

// DetermineDateRange probes two- and four-year windows concurrently and
// widens the search window when mention volume is thin, so common names
// stay bounded and rare ones still surface companies.
func (e *Engine) DetermineDateRange(ctx context.Context, term string, progress Progress) (DateRange, error) {
	end := time.Now()
	progress.emit("daterange", "Testing volume for %q...", term)

	var count2yr, count4yr int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := e.CountUniqueCompanies(gctx, term, end.AddDate(0, 0, -730), end)
		count2yr = c
		return err
	})
	g.Go(func() error {
		c, err := e.CountUniqueCompanies(gctx, term, end.AddDate(0, 0, -1460), end)
		count4yr = c
		return err
	})
	if err := g.Wait(); err != nil {
		return DateRange{}, err
	}

	progress.emit("daterange", "2 years: %d unique companies", count2yr)
	progress.emit("daterange", "4 years: %d unique companies", count4yr)

	var days int
	var label string
	switch {
	case count2yr >= TargetCompanies:
		days, label = 730, "2 years"
	case count2yr >= 40:
		days, label = 730, "2 years"
	case count4yr >= TargetCompanies:
		days, label = 1095, "3 years"
	case count4yr >= 30:
		days, label = 1460, "4 years"
	case count4yr >= 15:
		days, label = 1825, "5 years"
	default:
		days, label = 2555, "7 years"
	}

	return DateRange{
		Start: end.AddDate(0, 0, -days),
		End:   end,
		Label: label,
	}, nil
}
