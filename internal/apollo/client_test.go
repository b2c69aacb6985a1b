package apollo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/companyintel/research-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.ApolloConfig {
	return &config.ApolloConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Timeout:           5,
		MaxRetries:        2,
		RequestsPerSecond: 100,
	}
}

func TestEnrichOrganization(t *testing.T) {
	var gotPath, gotDomain, gotKey, gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDomain = r.URL.Query().Get("domain")
		gotKey = r.Header.Get("x-api-key")
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organization": {"name": "Acme Corporation", "website_url": "https://acme.com"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())

	data, err := client.EnrichOrganization(context.Background(), "acme.com")
	require.NoError(t, err)

	assert.Equal(t, "/organizations/enrich", gotPath)
	assert.Equal(t, "acme.com", gotDomain)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "no-cache", gotCacheControl)

	org := Organization(data)
	require.NotNil(t, org)
	assert.Equal(t, "Acme Corporation", org["name"])
}

func TestOrganization(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Nil(t, Organization(nil))
	})

	t.Run("missing organization", func(t *testing.T) {
		assert.Nil(t, Organization(map[string]interface{}{"other": true}))
	})

	t.Run("organization is not an object", func(t *testing.T) {
		assert.Nil(t, Organization(map[string]interface{}{"organization": "nope"}))
	})
}

func TestEnrichOrganizationNotConfigured(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	client := NewClient(cfg, zap.NewNop())

	assert.False(t, client.IsEnabled())
	_, err := client.EnrichOrganization(context.Background(), "acme.com")
	assert.Error(t, err)
}
