package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselfinder/internal/config"
	"counselfinder/internal/stockloan"
	"counselfinder/pkg/contracts/domain"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: dir,
		DataDir:       filepath.Join(dir, "data"),
		ExportsDir:    filepath.Join(dir, "exports"),
		LogsDir:       filepath.Join(dir, "logs"),
	}
	return NewCSVWriter(paths), dir
}

func floatPtr(f float64) *float64 { return &f }

func TestWriteSimpleCSVRoundTrip(t *testing.T) {
	writer, dir := testWriter(t)

	headers := []string{"Law Firm", "Lawyer", "Market Cap"}
	records := [][]string{
		{"Cooley LLP", "John Smith", "38181936796.82"},
		{"Latham & Watkins LLP", "", ""},
	}

	require.NoError(t, writer.WriteSimpleCSV("acme_lawyers.csv", headers, records))

	raw, err := os.ReadFile(filepath.Join(dir, "exports", "acme_lawyers.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, utf8BOM), "export carries a UTF-8 BOM")

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, records[0], rows[1])
	assert.Equal(t, records[1], rows[2])
}

func TestStreamWriter(t *testing.T) {
	writer, dir := testWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Symbol", "Available"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"AAPL", "15000000"}))
	require.NoError(t, stream.WriteRecord([]string{"GME", ""}))
	require.NoError(t, stream.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "exports", "stream.csv"))
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV([]string{"A", "B"}, [][]string{{"1", "quoted, value"}})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, utf8BOM))

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "quoted, value", rows[1][1])
}

func TestCounselTable(t *testing.T) {
	result := &domain.CompanySearchResult{
		Rows: []domain.CompanyCounselRow{
			{LawFirm: "Cooley LLP", Lawyer: "John Smith", MarketCap: floatPtr(1234.5)},
			{LawFirm: "Latham & Watkins LLP"},
		},
	}

	headers, records := CounselTable(result)
	assert.Equal(t, []string{"Law Firm", "Lawyer", "Market Cap"}, headers)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Cooley LLP", "John Smith", "1234.50"}, records[0])
	assert.Equal(t, []string{"Latham & Watkins LLP", "", ""}, records[1])
}

func TestEntityTable(t *testing.T) {
	result := &domain.EntitySearchResult{
		Rows: []domain.EntityCompanyRow{
			{Company: "Alpha Inc", Ticker: "ALPH", FilingType: "S-1", FilingDate: "2024-06-01", MarketCap: floatPtr(99.999)},
		},
	}

	headers, records := EntityTable(result)
	assert.Equal(t, []string{"Company", "Ticker", "Filing Type", "Filing Date", "Market Cap"}, headers)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Alpha Inc", "ALPH", "S-1", "2024-06-01", "100.00"}, records[0])
}

func TestStockLoanTable(t *testing.T) {
	rebate := 4.8225
	available := int64(15000000)
	snapshot := &stockloan.Snapshot{
		Date: "2024.06.01",
		Time: "10:15:30",
		Records: []domain.StockLoanRecord{
			{Date: "2024.06.01", Time: "10:15:30", Symbol: "AAPL", Currency: "USD",
				Name: "APPLE INC", RebateRate: &rebate, Available: &available},
		},
	}

	_, records := StockLoanTable(snapshot)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"2024.06.01", "10:15:30", "AAPL", "USD", "APPLE INC",
		"4.82", "", "15000000"}, records[0])
}

func TestDownloadFileName(t *testing.T) {
	assert.Equal(t, "aapl_lawyers.csv", DownloadFileName(domain.SearchModeCompany, "AAPL"))
	assert.Equal(t, "jane_doe_companies.csv", DownloadFileName(domain.SearchModeLawyer, "Jane Doe"))
	assert.Equal(t, "latham_and_watkins_companies.csv", DownloadFileName(domain.SearchModeLawFirm, "Latham & Watkins"))
}
