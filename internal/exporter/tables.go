package exporter

import (
	"strings"

	"counselfinder/internal/stockloan"
	"counselfinder/pkg/contracts/domain"
)

// CounselTable renders a company search result as CSV headers and rows.
func CounselTable(result *domain.CompanySearchResult) ([]string, [][]string) {
	headers := []string{"Law Firm", "Lawyer", "Market Cap"}

	records := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		marketCap := ""
		if row.MarketCap != nil {
			marketCap = formatFloat(*row.MarketCap)
		}
		records = append(records, []string{row.LawFirm, row.Lawyer, marketCap})
	}
	return headers, records
}

// EntityTable renders a lawyer or law-firm search result as CSV headers
// and rows.
func EntityTable(result *domain.EntitySearchResult) ([]string, [][]string) {
	headers := []string{"Company", "Ticker", "Filing Type", "Filing Date", "Market Cap"}

	records := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		marketCap := ""
		if row.MarketCap != nil {
			marketCap = formatFloat(*row.MarketCap)
		}
		records = append(records, []string{row.Company, row.Ticker, row.FilingType, row.FilingDate, marketCap})
	}
	return headers, records
}

// StockLoanTable renders a shortstock snapshot as CSV headers and rows.
func StockLoanTable(snapshot *stockloan.Snapshot) ([]string, [][]string) {
	headers := []string{"Date", "Time", "Symbol", "Currency", "Name",
		"Rebate Rate (%)", "Fee Rate (%)", "Available"}

	records := make([][]string, 0, len(snapshot.Records))
	for _, rec := range snapshot.Records {
		rebate, fee, available := "", "", ""
		if rec.RebateRate != nil {
			rebate = formatFloat(*rec.RebateRate)
		}
		if rec.FeeRate != nil {
			fee = formatFloat(*rec.FeeRate)
		}
		if rec.Available != nil {
			available = formatInt(*rec.Available)
		}
		records = append(records, []string{
			rec.Date, rec.Time, rec.Symbol, rec.Currency, rec.Name,
			rebate, fee, available,
		})
	}
	return headers, records
}

// DownloadFileName builds the suggested filename for a search download:
// "aapl_lawyers.csv" for company searches, "jane_doe_companies.csv" for
// the entity modes.
func DownloadFileName(mode domain.SearchMode, query string) string {
	name := strings.ToLower(strings.TrimSpace(query))
	if mode == domain.SearchModeCompany {
		return name + "_lawyers.csv"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "&", "and")
	return name + "_companies.csv"
}
