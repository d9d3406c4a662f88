package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselfinder/internal/infrastructure"
)

func testHandler(t *testing.T) *ErrorHandler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/search/company", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "ticker not found sentinel",
			err:        fmt.Errorf("resolve: %w", ErrNoCIKForTicker),
			wantStatus: http.StatusNotFound,
			wantType:   TypeTickerNotFound,
		},
		{
			name:       "no filings sentinel",
			err:        ErrNoFilingsFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNoFilings,
		},
		{
			name:       "extraction disabled",
			err:        ErrExtractionDisabled,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeExtractionDisabled,
		},
		{
			name:       "reference unavailable",
			err:        ErrReferenceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeReferenceMissing,
		},
		{
			name:       "data format",
			err:        fmt.Errorf("%w: column count", ErrDataFormat),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataFormat,
		},
		{
			name:       "network error",
			err:        WrapUpstream("EDGAR", fmt.Errorf("timeout")),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeUpstream,
		},
		{
			name:       "generic not found message",
			err:        fmt.Errorf("export file not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
			assert.Equal(t, "/api/search/company", pd.Instance)
		})
	}
}

func TestErrorToProblemAPIError(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/search/lawyer", nil)

	pd := h.ErrorToProblem(ErrValidation("ticker", "ticker is required"), req)

	assert.Equal(t, http.StatusBadRequest, pd.Status)
	assert.Equal(t, TypeValidation, pd.Type)
	assert.Equal(t, "VALIDATION_FAILED", pd.Extensions["error_code"])
	ve, ok := pd.Extensions["details"].(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ticker", ve.Field)
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reference", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrReferenceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeReferenceMissing, body["type"])
	assert.Contains(t, body, "trace_id")
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleErrorCarriesTraceID(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/search/firm", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-42"))
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "trace-42", body["trace_id"])
}

func TestNotFoundHandler(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowedHandler(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodDelete, "/api/reference", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "DELETE")
}
