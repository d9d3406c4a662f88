package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApplication builds the full application against a temporary
// directory so no state leaks into the working tree.
func newTestApplication(t *testing.T) *Application {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LCF_PATHS_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("LCF_PATHS_EXPORTS_DIR", filepath.Join(dir, "exports"))
	t.Setenv("LCF_PATHS_LOGS_DIR", filepath.Join(dir, "logs"))
	t.Setenv("LCF_LOGGING_OUTPUT", "stdout")
	t.Setenv("LCF_OPENAI_API_KEY", "")

	app, err := NewApplication()
	require.NoError(t, err)
	t.Cleanup(app.Hub.Stop)
	return app
}

func TestApplicationRoutes(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "health", path: "/api/health", want: http.StatusOK},
		{name: "liveness", path: "/api/health/live", want: http.StatusOK},
		{name: "version", path: "/api/version", want: http.StatusOK},
		{name: "reference status", path: "/api/reference", want: http.StatusOK},
		{name: "prometheus metrics", path: "/metrics", want: http.StatusOK},
		{name: "unknown route", path: "/api/nope", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestApplicationSearchValidation(t *testing.T) {
	app := newTestApplication(t)

	// Missing ticker never reaches the EDGAR client
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search/company", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search/lawyer", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationServerSettings(t *testing.T) {
	app := newTestApplication(t)

	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, app.Config.Server.SearchTimeout, app.Server.WriteTimeout,
		"write timeout follows the search budget")
}
