package reference

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

// expectedColumns is the fixed layout of the reference workbook. Header
// matching is case-insensitive but the order is not negotiable.
var expectedColumns = []string{"Symbol", "Date", "Time", "Security Type", "Market Cap"}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"1/2/06",
}

// Load reads the reference workbook at path into a table keyed by symbol.
// When the same symbol appears more than once the row with the latest
// date wins. A workbook that does not match the expected column layout
// returns ErrDataFormat.
func Load(path string, logger *slog.Logger) (domain.ReferenceTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: workbook has no rows", apierrors.ErrDataFormat)
	}

	if err := validateHeader(rows[0]); err != nil {
		return nil, err
	}

	table := make(domain.ReferenceTable)
	skipped := 0

	for i, row := range rows[1:] {
		if len(row) < len(expectedColumns) {
			skipped++
			continue
		}

		symbol := domain.NormalizeSymbol(row[0])
		if symbol == "" {
			skipped++
			continue
		}

		cap, err := parseMarketCap(row[4])
		if err != nil {
			logger.Warn("skipping reference row with bad market cap",
				slog.Int("row", i+2),
				slog.String("symbol", symbol),
				slog.String("value", row[4]),
			)
			skipped++
			continue
		}

		rec := domain.ReferenceRecord{
			Symbol:       symbol,
			Date:         parseDate(row[1]),
			Time:         strings.TrimSpace(row[2]),
			SecurityType: strings.TrimSpace(row[3]),
			MarketCap:    cap,
		}

		// Latest date wins for duplicate symbols
		if existing, ok := table[symbol]; ok && existing.Date.After(rec.Date) {
			continue
		}
		table[symbol] = rec
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in %s", apierrors.ErrDataFormat, path)
	}

	if skipped > 0 {
		logger.Info("reference load skipped rows",
			slog.String("path", path),
			slog.Int("skipped", skipped),
			slog.Int("loaded", len(table)),
		)
	}

	return table, nil
}

// validateHeader checks the first row against the expected layout.
func validateHeader(header []string) error {
	if len(header) < len(expectedColumns) {
		return fmt.Errorf("%w: expected %d columns, got %d",
			apierrors.ErrDataFormat, len(expectedColumns), len(header))
	}
	for i, want := range expectedColumns {
		got := strings.TrimSpace(header[i])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%w: column %d is %q, expected %q",
				apierrors.ErrDataFormat, i+1, got, want)
		}
	}
	return nil
}

// parseMarketCap accepts plain and formatted numbers ("38,181,936,796.82",
// "$1.5e9").
func parseMarketCap(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty market cap")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative market cap %f", v)
	}
	return v, nil
}

// parseDate tries the known layouts; unparseable dates come back zero so
// the record is still usable for cap lookups.
func parseDate(s string) time.Time {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}
