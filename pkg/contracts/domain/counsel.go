package domain

// CompanyCounselRow is one row of a company search result: a law firm and
// one lawyer working at it. Lawyer is empty when only the firm could be
// identified in the filings. MarketCap is attached during enrichment and
// nil when the ticker is absent from the reference table (or no table is
// loaded).
type CompanyCounselRow struct {
	LawFirm   string   `json:"law_firm"`
	Lawyer    string   `json:"lawyer,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
}

// EntityCompanyRow is one row of a lawyer or law-firm search result: a
// company that the searched entity appeared alongside in a filing, keyed
// by the most recent such filing.
type EntityCompanyRow struct {
	Company    string   `json:"company"`
	Ticker     string   `json:"ticker"`
	FilingType string   `json:"filing_type"`
	FilingDate string   `json:"filing_date"`
	MarketCap  *float64 `json:"market_cap,omitempty"`
}

// SearchMode identifies which of the three search flows produced a result.
type SearchMode string

const (
	SearchModeCompany SearchMode = "company"
	SearchModeLawyer  SearchMode = "lawyer"
	SearchModeLawFirm SearchMode = "law_firm"
)

// CompanySearchResult is the full outcome of a company search.
type CompanySearchResult struct {
	Company   CompanyIdentity     `json:"company"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Filings   int                 `json:"filings_processed"`
	Rows      []CompanyCounselRow `json:"rows"`
}

// EntitySearchResult is the full outcome of a lawyer or law-firm search.
type EntitySearchResult struct {
	Mode      SearchMode         `json:"mode"`
	Query     string             `json:"query"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	DateRange string             `json:"date_range_label,omitempty"`
	Rows      []EntityCompanyRow `json:"rows"`
}
