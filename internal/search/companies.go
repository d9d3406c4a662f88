package search

import (
	"context"
	"sort"
	"strings"

	"counselfinder/pkg/contracts/domain"
)

// MaxCompanyMatches caps a company lookup response.
const MaxCompanyMatches = 25

// Companies matches SEC index entries by ticker or company name, feeding
// the company picker. Exact ticker matches sort first, then ticker
// prefixes, then everything else alphabetically by ticker.
func (e *Engine) Companies(ctx context.Context, query string) ([]domain.CompanyIdentity, error) {
	all, err := e.source.Companies(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))

	matches := make([]domain.CompanyIdentity, 0, MaxCompanyMatches)
	for _, company := range all {
		if q == "" ||
			strings.Contains(strings.ToLower(company.Ticker), q) ||
			strings.Contains(strings.ToLower(company.Name), q) {
			matches = append(matches, company)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		ri, rj := matchRank(matches[i].Ticker, q), matchRank(matches[j].Ticker, q)
		if ri != rj {
			return ri < rj
		}
		return matches[i].Ticker < matches[j].Ticker
	})

	if len(matches) > MaxCompanyMatches {
		matches = matches[:MaxCompanyMatches]
	}
	return matches, nil
}

func matchRank(ticker, q string) int {
	if q == "" {
		return 2
	}
	lower := strings.ToLower(ticker)
	switch {
	case lower == q:
		return 0
	case strings.HasPrefix(lower, q):
		return 1
	default:
		return 2
	}
}
