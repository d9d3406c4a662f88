package domain

import (
	"time"
)

// ReferenceRecord is one row of the stock loan reference spreadsheet.
// Symbol uniquely identifies at most one record per loaded file.
type ReferenceRecord struct {
	Symbol       string    `json:"symbol" validate:"required,min=1,max=10"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time,omitempty"`
	SecurityType string    `json:"security_type,omitempty"`
	MarketCap    float64   `json:"market_cap"`
}

// ReferenceTable maps uppercased ticker symbols to their reference records.
// A nil or empty table means "no reference data loaded"; enrichment then
// passes rows through unchanged.
type ReferenceTable map[string]ReferenceRecord

// Lookup returns the record for a ticker, normalizing case and whitespace
// the same way the loader does.
func (t ReferenceTable) Lookup(ticker string) (ReferenceRecord, bool) {
	if len(t) == 0 {
		return ReferenceRecord{}, false
	}
	rec, ok := t[NormalizeSymbol(ticker)]
	return rec, ok
}

// ReferenceStatus describes the currently active reference file.
type ReferenceStatus struct {
	Available bool      `json:"available"`
	FileName  string    `json:"file_name,omitempty"`
	FileDate  time.Time `json:"file_date,omitempty"`
	Symbols   int       `json:"symbols"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
}

// StockLoanRecord is one row of the Interactive Brokers shortstock feed.
type StockLoanRecord struct {
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Symbol     string   `json:"symbol"`
	Currency   string   `json:"currency"`
	Name       string   `json:"name"`
	RebateRate *float64 `json:"rebate_rate_pct,omitempty"`
	FeeRate    *float64 `json:"fee_rate_pct,omitempty"`
	Available  *int64   `json:"available,omitempty"`
}
