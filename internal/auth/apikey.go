// Package auth provides API key authentication for the research API.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Middleware authenticates requests with a static API key.
type Middleware struct {
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates an API key middleware. When no key is configured
// authentication is disabled and every request passes; this is logged loudly
// at startup.
func NewMiddleware(cfg *config.ApiKeyConfig, logger *zap.Logger) *Middleware {
	if cfg.Value == "" {
		logger.Warn("No API key configured - API authentication is disabled")
	}
	return &Middleware{
		apiKey: cfg.Value,
		logger: logger,
	}
}

// Enabled reports whether authentication is enforced.
func (m *Middleware) Enabled() bool {
	return m.apiKey != ""
}

// Authenticate validates the X-API-Key header. The comparison is constant
// time to avoid leaking key prefixes.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(HeaderName)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) != 1 {
			m.logger.Warn("rejected request with invalid API key",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"A valid X-API-Key header is required."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
