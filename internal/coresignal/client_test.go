package coresignal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/companyintel/research-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.CoreSignalConfig {
	return &config.CoreSignalConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Timeout:           5,
		MaxRetries:        3,
		RequestsPerSecond: 100,
	}
}

func TestEnrich(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("website")
		gotKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"company_name": "Acme Corp", "employees_count": 250}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())

	data, err := client.Enrich(context.Background(), "https://acme.com")
	require.NoError(t, err)

	assert.Equal(t, "/cdapi/v2/company_multi_source/enrich", gotPath)
	assert.Equal(t, "https://acme.com", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Acme Corp", data["company_name"])
	assert.Equal(t, float64(250), data["employees_count"])
}

func TestEnrichRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"company_name": "Acme"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())

	data, err := client.Enrich(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", data["company_name"])
	assert.Equal(t, int32(2), calls.Load())
}

func TestEnrichDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no company found"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())

	_, err := client.Enrich(context.Background(), "unknown.example")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnrichNotConfigured(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	client := NewClient(cfg, zap.NewNop())

	assert.False(t, client.IsEnabled())
	_, err := client.Enrich(context.Background(), "acme.com")
	assert.Error(t, err)
}
