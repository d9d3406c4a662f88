package domain

import (
	"strings"
)

// Filing is a single EDGAR filing reference from the submissions API.
type Filing struct {
	Type       string `json:"type"`
	Date       string `json:"date"` // YYYY-MM-DD as EDGAR reports it
	Accession  string `json:"accession"`
	PrimaryDoc string `json:"primary_doc,omitempty"`
}

// CompanyIdentity is a company resolved from the SEC ticker index.
type CompanyIdentity struct {
	CIK    string `json:"cik"`
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// NormalizeSymbol canonicalizes a ticker for reference-table lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// RelevantFilings lists the SEC filing types that typically name legal
// counsel or matter for tracking company legal relationships. Used to
// filter full-text search hits for lawyer and law-firm searches.
var RelevantFilings = map[string]bool{
	// Registration statements (IPOs, securities offerings)
	"S-1": true, "S-3": true, "S-4": true, "S-8": true,
	"S-1/A": true, "S-3/A": true, "S-4/A": true, "S-8/A": true,
	"S-3ASR": true, "S-1MEF": true, "S-4MEF": true,

	// Foreign filer registration statements
	"F-1": true, "F-3": true, "F-1/A": true, "F-3/A": true,

	// Prospectuses
	"424B1": true, "424B2": true, "424B3": true, "424B4": true,
	"424B5": true, "424B7": true, "424B8": true,

	// Post-effective amendments
	"POS AM": true, "POSASR": true,

	// Regulation D private placements
	"D": true, "D/A": true,

	// Tender offers
	"SC TO-I": true, "SC TO-I/A": true, "SC 13E3": true, "SC 13E4": true,

	// Proxy statements
	"DEF 14A": true, "DEFA14A": true, "DEFM14A": true,

	// Periodic reports
	"8-K": true, "8-K/A": true,
	"10-K": true, "10-Q": true, "10-K/A": true, "10-Q/A": true,

	// Beneficial ownership
	"SC 13D": true, "SC 13G": true, "SC 13D/A": true, "SC 13G/A": true,

	// Correspondence and supplemental materials
	"CORRESP": true, "UPLOAD": true, "EX-24": true,

	// Effectiveness notices
	"EFFECT": true,
}

// HighPriorityLegalFilings is the subset of RelevantFilings most likely to
// carry a detailed legal counsel section. Company search restricts itself
// to these before fetching filing documents.
var HighPriorityLegalFilings = map[string]bool{
	"S-1": true, "S-3": true, "S-4": true, "S-8": true,
	"S-1/A": true, "S-3/A": true, "S-4/A": true, "S-8/A": true,
	"S-3ASR": true, "S-1MEF": true, "S-4MEF": true,
	"F-1": true, "F-3": true, "F-1/A": true, "F-3/A": true,
	"424B1": true, "424B2": true, "424B3": true, "424B4": true,
	"424B5": true, "424B7": true, "424B8": true,
	"POS AM": true, "POSASR": true,
	"D": true, "D/A": true,
	"SC TO-I": true, "SC TO-I/A": true, "SC 13E3": true, "SC 13E4": true,
	"DEF 14A": true, "DEFA14A": true, "DEFM14A": true,
	"CORRESP": true, "UPLOAD": true, "EX-24": true,
}
