package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/stockloan"
	"counselfinder/pkg/contracts/domain"
)

type fakeStockLoanService struct {
	snapshot   *stockloan.Snapshot
	err        error
	gotRefresh bool
}

func (f *fakeStockLoanService) Snapshot(_ context.Context, refresh bool) (*stockloan.Snapshot, error) {
	f.gotRefresh = refresh
	return f.snapshot, f.err
}

func sampleSnapshot() *stockloan.Snapshot {
	available := int64(15000000)
	return &stockloan.Snapshot{
		Date: "2024.06.01",
		Time: "10:15:30",
		Records: []domain.StockLoanRecord{
			{Date: "2024.06.01", Time: "10:15:30", Symbol: "AAPL", Currency: "USD",
				Name: "APPLE INC", Available: &available},
		},
	}
}

func newStockLoanRouter(service *fakeStockLoanService) http.Handler {
	logger := handlerLogger()
	return NewStockLoanHandler(service, logger, apierrors.NewErrorHandler(logger, false)).Routes()
}

func TestStockLoanSnapshotJSON(t *testing.T) {
	service := &fakeStockLoanService{snapshot: sampleSnapshot()}
	router := newStockLoanRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, service.gotRefresh)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(1), resp["count"])
}

func TestStockLoanSnapshotRefresh(t *testing.T) {
	service := &fakeStockLoanService{snapshot: sampleSnapshot()}
	router := newStockLoanRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?refresh=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, service.gotRefresh)
}

func TestStockLoanSnapshotCSV(t *testing.T) {
	service := &fakeStockLoanService{snapshot: sampleSnapshot()}
	router := newStockLoanRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "shortstock.csv")
	assert.Contains(t, rec.Body.String(), "APPLE INC")
}

func TestStockLoanSnapshotUnavailable(t *testing.T) {
	service := &fakeStockLoanService{err: apierrors.ErrStockLoanUnavailable}
	router := newStockLoanRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
