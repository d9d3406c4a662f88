package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "Resource not found")

	assert.Equal(t, "Resource not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "NOT_FOUND", err.ErrorCode)
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"field": "ticker"}
	err := NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "bad input", details)

	assert.Equal(t, details, err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("years", "must be between 1 and 10")

	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	ve, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "years", ve.Field)
}
