package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

type fakeReferenceService struct {
	status domain.ReferenceStatus
	err    error
	reload int
}

func (f *fakeReferenceService) Status(_ context.Context) domain.ReferenceStatus {
	return f.status
}

func (f *fakeReferenceService) Reload(_ context.Context) (domain.ReferenceStatus, error) {
	f.reload++
	return f.status, f.err
}

func TestReferenceStatus(t *testing.T) {
	service := &fakeReferenceService{
		status: domain.ReferenceStatus{
			Available: true,
			FileName:  "Stock Loan 06.01.24.xlsx",
			FileDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Symbols:   1200,
		},
	}
	logger := handlerLogger()
	router := NewReferenceHandler(service, logger, apierrors.NewErrorHandler(logger, false)).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status domain.ReferenceStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Available)
	assert.Equal(t, 1200, status.Symbols)
}

func TestReferenceReload(t *testing.T) {
	service := &fakeReferenceService{status: domain.ReferenceStatus{Available: true, Symbols: 10}}
	logger := handlerLogger()
	router := NewReferenceHandler(service, logger, apierrors.NewErrorHandler(logger, false)).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, service.reload)
}

func TestReferenceReloadUnavailable(t *testing.T) {
	service := &fakeReferenceService{err: apierrors.ErrReferenceUnavailable}
	logger := handlerLogger()
	router := NewReferenceHandler(service, logger, apierrors.NewErrorHandler(logger, false)).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
