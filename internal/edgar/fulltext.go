package edgar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	fullTextPageSize = 100

	// maxStalePages stops pagination after this many consecutive pages
	// that surface no company we have not already seen
	maxStalePages = 3

	// DefaultMaxResults caps how many full-text hits one search collects
	DefaultMaxResults = 500
)

// FullTextHit is one filing hit from the EDGAR full-text search.
type FullTextHit struct {
	CompanyDisplay string `json:"company_display"`
	FilingType     string `json:"filing_type"`
	FilingDate     string `json:"filing_date"`
}

// fullTextResponse covers the elasticsearch-shaped response envelope.
type fullTextResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source struct {
				DisplayNames []string `json:"display_names"`
				FileType     string   `json:"file_type"`
				FileDate     string   `json:"file_date"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

var (
	cikSuffixRe = regexp.MustCompile(`\s*\(CIK\s+\d+\)`)
	tickerRe    = regexp.MustCompile(`\(([A-Z0-9\-]+)`)
	parenRe     = regexp.MustCompile(`\s*\(`)
)

// CleanDisplayName splits an EDGAR display name like
// "Apple Inc.  (AAPL)  (CIK 0000320193)" into the company name and
// ticker. Companies without a listed ticker return an empty ticker.
func CleanDisplayName(display string) (name, ticker string) {
	withoutCIK := cikSuffixRe.ReplaceAllString(display, "")
	if m := tickerRe.FindStringSubmatch(withoutCIK); m != nil {
		ticker = m[1]
	}
	name = strings.TrimSpace(parenRe.Split(withoutCIK, 2)[0])
	return name, ticker
}

// FullTextPage fetches one page of full-text search results. The search
// term is sent quoted so EDGAR matches the exact phrase.
func (c *Client) FullTextPage(ctx context.Context, term string, from, to time.Time, startIndex int) ([]FullTextHit, int, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", term))
	params.Set("dateRange", "custom")
	params.Set("startdt", from.Format("2006-01-02"))
	params.Set("enddt", to.Format("2006-01-02"))
	params.Set("from", strconv.Itoa(startIndex))
	params.Set("size", strconv.Itoa(fullTextPageSize))

	var resp fullTextResponse
	if err := c.getJSON(ctx, c.SearchURL, params, &resp); err != nil {
		return nil, 0, fmt.Errorf("full-text search failed for %q: %w", term, err)
	}

	hits := make([]FullTextHit, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		display := "Unknown"
		if len(hit.Source.DisplayNames) > 0 {
			display = hit.Source.DisplayNames[0]
		}
		hits = append(hits, FullTextHit{
			CompanyDisplay: display,
			FilingType:     hit.Source.FileType,
			FilingDate:     hit.Source.FileDate,
		})
	}

	return hits, resp.Hits.Total.Value, nil
}

// FullTextSearch pages through results until maxTotal hits are collected,
// the result set is exhausted, or pagination goes stale: three
// consecutive pages adding no new company mean the tail is all
// repeat filers.
func (c *Client) FullTextSearch(ctx context.Context, term string, from, to time.Time, maxTotal int) ([]FullTextHit, error) {
	if maxTotal <= 0 {
		maxTotal = DefaultMaxResults
	}

	var all []FullTextHit
	seen := make(map[string]bool)
	startIndex := 0
	stalePages := 0

	for len(all) < maxTotal {
		hits, total, err := c.FullTextPage(ctx, term, from, to, startIndex)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			break
		}

		newCompanies := 0
		for _, hit := range hits {
			name, _ := CleanDisplayName(hit.CompanyDisplay)
			if name != "" && !seen[name] {
				seen[name] = true
				newCompanies++
			}
		}

		all = append(all, hits...)
		startIndex += fullTextPageSize

		if len(all) >= total {
			break
		}

		if newCompanies == 0 {
			stalePages++
			if stalePages >= maxStalePages {
				c.logger.DebugContext(ctx, "stopping full-text pagination, no new companies",
					slog.String("term", term),
					slog.Int("collected", len(all)),
				)
				break
			}
		} else {
			stalePages = 0
		}
	}

	return all, nil
}
