package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/companyintel/research-api/internal/auth"
	"github.com/companyintel/research-api/internal/config"
	"github.com/companyintel/research-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, staticDir string) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.Server.StaticDir = staticDir

	log := zap.NewNop()
	rt := NewRouter(
		cfg,
		log,
		nil,
		auth.NewMiddleware(&cfg.ApiKey, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		nil,
		nil,
		nil,
		nil,
	)
	return rt.Setup()
}

func TestRootServesAPIIndexWithoutStaticPage(t *testing.T) {
	h := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "Company Research")
	assert.Equal(t, "/api/v1/research/multi-source", body.Endpoints["multi_source_research"])
	assert.Equal(t, "/api/v1/reports", body.Endpoints["reports"])
}

func TestRootServesStaticIndexWhenPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>research</body></html>"), 0o644))

	h := newTestRouter(t, dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "research")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestRootFallsBackWhenIndexMissing(t *testing.T) {
	// StaticDir configured but no index.html present: the JSON index still
	// answers instead of a 404.
	h := newTestRouter(t, t.TempDir())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "endpoints")
}
