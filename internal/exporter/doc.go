// Package exporter provides CSV export for search results and the
// shortstock snapshot.
//
// CSVWriter writes files under the configured exports directory with a
// UTF-8 BOM for Excel compatibility, with a streaming variant for large
// tables. The table renderers (CounselTable, EntityTable,
// StockLoanTable) flatten domain results into headers and records, and
// RenderCSV produces an in-memory document for HTTP downloads.
package exporter
