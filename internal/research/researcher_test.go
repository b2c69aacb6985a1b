package research

import (
	"testing"

	"github.com/companyintel/research-api/internal/tavily"
	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.acme.com", "acme.com"},
		{"http://acme.com/about/team", "acme.com"},
		{"acme.com", "acme.com"},
		{"www.acme.co.uk", "acme.co.uk"},
		{"  https://acme.com  ", "acme.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Domain(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"acme.com", "https://acme.com"},
		{"www.acme.com", "https://www.acme.com"},
		{"https://acme.com", "https://acme.com"},
		{"http://acme.com", "http://acme.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeWebsite(tt.input), "input %q", tt.input)
	}
}

func TestResolveCompanyName(t *testing.T) {
	coresignalData := map[string]interface{}{"company_name": "Acme AS"}
	apolloData := map[string]interface{}{
		"name": "Acme Fallback",
		"organization": map[string]interface{}{
			"name": "Acme Corporation",
		},
	}

	t.Run("apollo organization name wins", func(t *testing.T) {
		assert.Equal(t, "Acme Corporation", resolveCompanyName(apolloData, coresignalData, "acme.com"))
	})

	t.Run("coresignal name second", func(t *testing.T) {
		assert.Equal(t, "Acme AS", resolveCompanyName(nil, coresignalData, "acme.com"))
	})

	t.Run("apollo top-level name third", func(t *testing.T) {
		noOrg := map[string]interface{}{"name": "Acme Fallback"}
		assert.Equal(t, "Acme Fallback", resolveCompanyName(noOrg, nil, "acme.com"))
	})

	t.Run("domain title-cased last", func(t *testing.T) {
		assert.Equal(t, "Acme-Corp", resolveCompanyName(nil, nil, "acme-corp.com"))
	})
}

func TestFormatSearchResults(t *testing.T) {
	t.Run("empty results", func(t *testing.T) {
		assert.Equal(t, "No relevant data found", formatSearchResults(nil))
	})

	t.Run("renders bullets with sources", func(t *testing.T) {
		out := formatSearchResults([]tavily.SearchResult{
			{Title: "Acme customers", Content: "Acme serves BigCo and MedCo.", URL: "https://example.com/a"},
			{},
		})
		assert.Contains(t, out, "- **Acme customers**: Acme serves BigCo and MedCo. [Source](https://example.com/a)")
		assert.Contains(t, out, "- **No title.**: No summary available. [Source](No URL.)")
	})
}

func TestTopCompetitors(t *testing.T) {
	profile := map[string]interface{}{
		"competitors": []interface{}{
			map[string]interface{}{"company_name": "Low", "similarity_score": 0.2},
			map[string]interface{}{"company_name": "High", "similarity_score": 0.9},
			map[string]interface{}{"company_name": "Mid", "similarity_score": 0.5},
		},
	}

	top := topCompetitors(profile, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "High", top[0]["company_name"])
	assert.Equal(t, "Mid", top[1]["company_name"])
}

func TestTopCompetitorsEmpty(t *testing.T) {
	assert.Empty(t, topCompetitors(map[string]interface{}{}, 5))
}

func TestNewsSection(t *testing.T) {
	t.Run("no updates", func(t *testing.T) {
		assert.Equal(t, "No recent news items found.\n", newsSection(map[string]interface{}{}))
	})

	t.Run("caps at three items and truncates", func(t *testing.T) {
		long := make([]byte, 600)
		for i := range long {
			long[i] = 'x'
		}
		profile := map[string]interface{}{
			"company_updates": []interface{}{
				map[string]interface{}{"date": "2025-01-01", "description": string(long), "reactions_count": float64(5)},
				map[string]interface{}{"description": "two"},
				map[string]interface{}{"description": "three"},
				map[string]interface{}{"description": "four"},
			},
		}
		out := newsSection(profile)
		assert.Contains(t, out, "### News Item 1")
		assert.Contains(t, out, "### News Item 3")
		assert.NotContains(t, out, "### News Item 4")
		assert.Contains(t, out, "...")
		assert.Contains(t, out, "**Engagement:** 5 reactions")
	})
}

func TestUpdateDescriptions(t *testing.T) {
	profile := map[string]interface{}{
		"company_updates": []interface{}{
			map[string]interface{}{"description": "first"},
			map[string]interface{}{"no_description": true},
			map[string]interface{}{"description": "second"},
		},
	}
	assert.Equal(t, []string{"first", "second"}, updateDescriptions(profile))
}
