package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselfinder/internal/config"
	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.EDGARConfig{
		UserAgent:      "Test Suite test@example.com",
		RequestTimeout: 5 * time.Second,
		RPS:            1000,
		Burst:          1000,
	}
	return NewClient(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestResolveTicker(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]tickerEntry{
			"0": {CIK: 320193, Ticker: "AAPL", Title: "Apple Inc."},
			"1": {CIK: 789019, Ticker: "MSFT", Title: "MICROSOFT CORP"},
		})
	}))
	defer srv.Close()

	c := testClient(t)
	c.TickersURL = srv.URL

	identity, err := c.ResolveTicker(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", identity.CIK, "CIK is zero-padded to ten digits")
	assert.Equal(t, "Apple Inc.", identity.Name)
	assert.Equal(t, "AAPL", identity.Ticker)
	assert.Equal(t, "Test Suite test@example.com", gotUserAgent)

	// Bloomberg-style suffix
	identity, err = c.ResolveTicker(context.Background(), "MSFT US Equity")
	require.NoError(t, err)
	assert.Equal(t, "MICROSOFT CORP", identity.Name)

	_, err = c.ResolveTicker(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, apierrors.ErrNoCIKForTicker)
}

func TestResolveTickerRetriesOnFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]tickerEntry{
			"0": {CIK: 320193, Ticker: "AAPL", Title: "Apple Inc."},
		})
	}))
	defer srv.Close()

	c := testClient(t)
	c.TickersURL = srv.URL

	_, err := c.ResolveTicker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFilingsFiltersAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CIK0000320193.json", r.URL.Path)
		fmt.Fprint(w, `{
			"filings": {"recent": {
				"form": ["S-1", "10-K", "S-1/A", "424B4", "S-3"],
				"filingDate": ["2024-03-01", "2024-04-01", "2024-05-01", "2023-01-01", "2025-06-01"],
				"accessionNumber": ["0001-24-000001", "0001-24-000002", "0001-24-000003", "0001-23-000004", "0001-25-000005"],
				"primaryDocument": ["s1.htm", "tenk.htm", "s1a.htm", "prosp.htm", "s3.htm"]
			}}
		}`)
	}))
	defer srv.Close()

	c := testClient(t)
	c.SubmissionsURL = srv.URL

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	filings, err := c.Filings(context.Background(), "320193", start, end)
	require.NoError(t, err)

	// 10-K is not a high-priority legal filing; 424B4 is out of range;
	// S-3 is out of range
	require.Len(t, filings, 2)
	assert.Equal(t, "S-1/A", filings[0].Type, "newest first")
	assert.Equal(t, "S-1", filings[1].Type)
	assert.Equal(t, "s1a.htm", filings[0].PrimaryDoc)
}

func TestDocumentText(t *testing.T) {
	longBody := "<html><head><style>p{color:red}</style></head><body><p>" +
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200) +
		"</p><p>Jane K. Doe, Esq.</p><p>Latham &amp; Watkins LLP</p></body></html>"

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, longBody)
	}))
	defer srv.Close()

	c := testClient(t)
	c.ArchivesURL = srv.URL

	filing := domain.Filing{
		Type:       "S-1",
		Date:       "2024-03-01",
		Accession:  "0001-24-000001",
		PrimaryDoc: "s1.htm",
	}

	text, err := c.DocumentText(context.Background(), "0000320193", filing)
	require.NoError(t, err)
	assert.Equal(t, "/320193/000124000001/s1.htm", gotPath,
		"CIK unpadded, accession dashes removed")
	assert.Contains(t, text, "Latham & Watkins LLP", "entities unescaped")
	assert.NotContains(t, text, "color:red", "style content stripped")
	assert.NotContains(t, text, "<p>")
}

func TestDocumentTextTooShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>Index page</body></html>")
	}))
	defer srv.Close()

	c := testClient(t)
	c.ArchivesURL = srv.URL

	_, err := c.DocumentText(context.Background(), "320193", domain.Filing{
		Type: "S-1", Date: "2024-03-01", Accession: "0001-24-000001", PrimaryDoc: "s1.htm",
	})
	assert.ErrorIs(t, err, apierrors.ErrNoDocumentText)
}

func TestDocumentTextTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>"+strings.Repeat("word ", 10000)+"</body></html>")
	}))
	defer srv.Close()

	c := testClient(t)
	c.ArchivesURL = srv.URL

	text, err := c.DocumentText(context.Background(), "320193", domain.Filing{
		Type: "S-1", Date: "2024-03-01", Accession: "0001-24-000001", PrimaryDoc: "s1.htm",
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), maxDocumentChars)
}

func TestCleanDisplayName(t *testing.T) {
	tests := []struct {
		display    string
		wantName   string
		wantTicker string
	}{
		{"Apple Inc.  (AAPL)  (CIK 0000320193)", "Apple Inc.", "AAPL"},
		{"Some Private Co  (CIK 0001234567)", "Some Private Co", ""},
		{"Brookfield Corp  (BN-PA)  (CIK 0001001085)", "Brookfield Corp", "BN-PA"},
		{"Unknown", "Unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			name, ticker := CleanDisplayName(tt.display)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantTicker, ticker)
		})
	}
}

func fullTextPageResponse(displays []string, total int) string {
	type src struct {
		DisplayNames []string `json:"display_names"`
		FileType     string   `json:"file_type"`
		FileDate     string   `json:"file_date"`
	}
	var hits []map[string]src
	for _, d := range displays {
		hits = append(hits, map[string]src{"_source": {
			DisplayNames: []string{d},
			FileType:     "S-1",
			FileDate:     "2024-06-01",
		}})
	}
	payload := map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]int{"value": total},
			"hits":  hits,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestFullTextSearchPaginates(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		assert.Equal(t, `"Jane Doe"`, r.URL.Query().Get("q"), "search term is quoted")

		switch from {
		case 0:
			displays := make([]string, fullTextPageSize)
			for i := range displays {
				displays[i] = fmt.Sprintf("Company %d  (TK%d)  (CIK 000000%04d)", i, i, i)
			}
			fmt.Fprint(w, fullTextPageResponse(displays, 150))
		default:
			displays := make([]string, 50)
			for i := range displays {
				displays[i] = fmt.Sprintf("Company %d  (TK%d)  (CIK 000001%04d)", 100+i, 100+i, i)
			}
			fmt.Fprint(w, fullTextPageResponse(displays, 150))
		}
	}))
	defer srv.Close()

	c := testClient(t)
	c.SearchURL = srv.URL

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	hits, err := c.FullTextSearch(context.Background(), "Jane Doe", from, to, 500)
	require.NoError(t, err)
	assert.Len(t, hits, 150)
	assert.Equal(t, 2, pages)
}

func TestFullTextSearchStopsOnStalePages(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		// Every page repeats the same single company against a huge total
		displays := make([]string, fullTextPageSize)
		for i := range displays {
			displays[i] = "Repeat Filer Inc  (RPT)  (CIK 0000000001)"
		}
		fmt.Fprint(w, fullTextPageResponse(displays, 100000))
	}))
	defer srv.Close()

	c := testClient(t)
	c.SearchURL = srv.URL

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.FullTextSearch(context.Background(), "Jane Doe", from, to, 100000)
	require.NoError(t, err)

	// First page finds the company, then three stale pages stop the scan
	assert.Equal(t, 4, pages)
}
