package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/companyintel/research-api/internal/config"
)

func newTestLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	return NewRateLimiter(cfg, zap.NewNop())
}

func TestGetClientIP(t *testing.T) {
	rl := newTestLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60})

	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"X-Forwarded-For single", "1.2.3.4", "", "9.9.9.9:1234", "1.2.3.4"},
		{"X-Forwarded-For chain takes first", "1.2.3.4, 5.6.7.8", "", "9.9.9.9:1234", "1.2.3.4"},
		{"X-Real-IP fallback", "", "5.6.7.8", "9.9.9.9:1234", "5.6.7.8"},
		{"RemoteAddr fallback", "", "", "9.9.9.9:1234", "9.9.9.9"},
		{"RemoteAddr without port", "", "", "9.9.9.9", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.expected, rl.getClientIP(r))
		})
	}
}

func TestIsPathWhitelisted(t *testing.T) {
	rl := newTestLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	})

	assert.True(t, rl.isPathWhitelisted("/health"))
	assert.True(t, rl.isPathWhitelisted("/swagger/index.html"))
	assert.False(t, rl.isPathWhitelisted("/api/v1/jobs"))
}

func TestLimitDisabledPassesThrough(t *testing.T) {
	rl := newTestLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1})

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLimitRejectsAfterQuota(t *testing.T) {
	rl := newTestLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2})

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, request().Code)
	assert.Equal(t, http.StatusOK, request().Code)

	rec := request()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestLimitWhitelistedIPBypassesQuota(t *testing.T) {
	rl := newTestLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"10.0.0.1"},
	})

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
