package stockloan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"counselfinder/pkg/contracts/domain"
)

// Snapshot is one parsed shortstock feed: the publication timestamp from
// the #BOF row plus every symbol row.
type Snapshot struct {
	Date    string                   `json:"date"`
	Time    string                   `json:"time"`
	Records []domain.StockLoanRecord `json:"records"`
}

// Parse reads the pipe-separated Interactive Brokers shortstock feed.
// #BOF carries the publication date and time, #SYM is the column header,
// #EOF closes the file. Rebate, fee and availability fall back to nil
// when the feed reports a non-numeric value (">10000000" style caps).
func Parse(r io.Reader) (*Snapshot, error) {
	snapshot := &Snapshot{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#BOF"):
			parts := strings.Split(line, "|")
			if len(parts) > 2 {
				snapshot.Date = strings.TrimSpace(parts[1])
				snapshot.Time = strings.TrimSpace(parts[2])
			}
			continue
		case strings.HasPrefix(line, "#EOF"), strings.HasPrefix(line, "#SYM"):
			continue
		}

		// Symbol|Currency|Name|CON|ISIN|Rebate|Fee|Available|FIGI
		fields := strings.Split(line, "|")
		if len(fields) < 8 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		snapshot.Records = append(snapshot.Records, domain.StockLoanRecord{
			Date:       snapshot.Date,
			Time:       snapshot.Time,
			Symbol:     fields[0],
			Currency:   fields[1],
			Name:       fields[2],
			RebateRate: parseFloat(fields[5]),
			FeeRate:    parseFloat(fields[6]),
			Available:  parseInt(fields[7]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shortstock feed: %w", err)
	}

	if len(snapshot.Records) == 0 {
		return nil, fmt.Errorf("shortstock feed contained no symbol rows")
	}
	return snapshot, nil
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
