package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(
		http.StatusNotFound,
		"/errors/ticker-not-found",
		"Ticker Not Found",
		"The ticker was not found",
		"/api/search/company",
	).WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "/errors/ticker-not-found", decoded["type"])
	assert.Equal(t, "Ticker Not Found", decoded["title"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}

func TestMapSearchError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown ticker",
			err:        fmt.Errorf("lookup: %w", ErrNoCIKForTicker),
			wantStatus: http.StatusNotFound,
			wantCode:   "TICKER_NOT_FOUND",
		},
		{
			name:       "no filings in range",
			err:        ErrNoFilingsFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NO_FILINGS_FOUND",
		},
		{
			name:       "extraction disabled",
			err:        ErrExtractionDisabled,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "EXTRACTION_DISABLED",
		},
		{
			name:       "reference missing",
			err:        ErrReferenceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "REFERENCE_UNAVAILABLE",
		},
		{
			name:       "bad reference layout",
			err:        fmt.Errorf("%w: expected 5 columns", ErrDataFormat),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "DATA_FORMAT",
		},
		{
			name:       "ftp down",
			err:        ErrStockLoanUnavailable,
			wantStatus: http.StatusBadGateway,
			wantCode:   "STOCK_LOAN_UNAVAILABLE",
		},
		{
			name:       "rate limited upstream",
			err:        ErrRateLimited,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "RATE_LIMITED",
		},
		{
			name:       "wrapped network failure",
			err:        WrapUpstream("EDGAR", fmt.Errorf("dial tcp: timeout")),
			wantStatus: http.StatusBadGateway,
			wantCode:   "NETWORK_ERROR",
		},
		{
			name:       "unclassified",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := MapSearchError(tt.err, "trace-1", "/api/search/company")

			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantCode, pd.Extensions["error_code"])
			assert.Equal(t, "trace-1", pd.Extensions["trace_id"])
		})
	}
}

func TestMapSearchErrorAPIError(t *testing.T) {
	pd := MapSearchError(ErrValidation("ticker", "ticker is required"), "t", "/api/search/company")

	assert.Equal(t, http.StatusBadRequest, pd.Status)
	assert.Equal(t, "VALIDATION_FAILED", pd.Extensions["error_code"])
}
