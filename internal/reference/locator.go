package reference

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "stock_loan_reference_"
	fileSuffix = ".xlsx"

	// dateLayout parses the YYMMDD portion of the filename
	dateLayout = "060102"
)

// LocateLatest scans dir for files named stock_loan_reference_YYMMDD.xlsx
// and returns the one with the newest embedded date. The boolean is false
// when no matching file exists; a missing or unreadable directory is
// treated the same way since both mean "no reference data".
func LocateLatest(dir string) (path string, fileDate time.Time, ok bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, false
	}

	var best string
	var bestDate time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		date, err := parseFileDate(name)
		if err != nil {
			continue
		}
		if best == "" || date.After(bestDate) {
			best = name
			bestDate = date
		}
	}

	if best == "" {
		return "", time.Time{}, false
	}
	return filepath.Join(dir, best), bestDate, true
}

// parseFileDate extracts the embedded date from a reference filename.
func parseFileDate(name string) (time.Time, error) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, filePrefix) || !strings.HasSuffix(lower, fileSuffix) {
		return time.Time{}, fmt.Errorf("not a reference file: %s", name)
	}
	datePart := name[len(filePrefix) : len(name)-len(fileSuffix)]
	if len(datePart) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("unexpected date segment %q in %s", datePart, name)
	}
	return time.Parse(dateLayout, datePart)
}
