package edgar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"counselfinder/pkg/contracts/domain"
)

// submissionsResponse covers the columnar "recent" arrays of the
// submissions API. The arrays are index-aligned.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			AccessionNumber []string `json:"accessionNumber"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Filings returns the company's high-priority legal filings within the
// date range, newest first.
func (c *Client) Filings(ctx context.Context, cik string, start, end time.Time) ([]domain.Filing, error) {
	padded := fmt.Sprintf("%010s", strings.TrimSpace(cik))
	url := fmt.Sprintf("%s/CIK%s.json", c.SubmissionsURL, padded)

	var resp submissionsResponse
	if err := c.getJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for CIK %s: %w", padded, err)
	}

	recent := resp.Filings.Recent
	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")

	var filings []domain.Filing
	for i := range recent.Form {
		form := recent.Form[i]
		if !domain.HighPriorityLegalFilings[form] {
			continue
		}
		if i >= len(recent.FilingDate) || i >= len(recent.AccessionNumber) {
			continue
		}

		// ISO dates compare correctly as strings
		date := recent.FilingDate[i]
		if date < startStr || date > endStr {
			continue
		}

		filing := domain.Filing{
			Type:      form,
			Date:      date,
			Accession: recent.AccessionNumber[i],
		}
		if i < len(recent.PrimaryDocument) {
			filing.PrimaryDoc = recent.PrimaryDocument[i]
		}
		filings = append(filings, filing)
	}

	sort.Slice(filings, func(i, j int) bool {
		return filings[i].Date > filings[j].Date
	})

	return filings, nil
}
