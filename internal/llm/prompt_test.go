package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiSourceReportPrompt(t *testing.T) {
	prompt := MultiSourceReportPrompt(MultiSourceData{
		CompanyName:      "Acme Corp",
		CoreSignalJSON:   `{"company_name":"Acme Corp"}`,
		ApolloJSON:       `{"name":"Acme"}`,
		CustomersSection: "- **BigCo deal**: Acme signed BigCo. [Source](https://example.com)",
	})

	assert.Contains(t, prompt, "markdown report for the company: Acme Corp")
	assert.Contains(t, prompt, `Coresignal API: {"company_name":"Acme Corp"}`)
	assert.Contains(t, prompt, `Apollo API: {"name":"Acme"}`)
	assert.Contains(t, prompt, "## Major/Enterprise Customers (from Tavily)")
	assert.Contains(t, prompt, "Acme signed BigCo.")

	// Field catalog and formatting rules travel with every prompt.
	assert.Contains(t, prompt, "Company Overview:")
	assert.Contains(t, prompt, "Leadership & Key Executives:")
	assert.Contains(t, prompt, "Do NOT include any emojis")
	assert.Contains(t, prompt, `state "No relevant data found."`)
}

func TestCoreSignalReportPrompt(t *testing.T) {
	prompt := CoreSignalReportPrompt(CoreSignalData{
		Website:         "acme.com",
		CoreSignalJSON:  `{"company_name":"Acme Corp"}`,
		NewsSection:     "- **Launch**: Acme launched a product.",
		CompetitorsJSON: `[{"company_name":"RivalSoft"}]`,
		CompanyUpdates:  []string{"Proud to announce our partnership with BigCo.", "Welcome MegaCorp!"},
	})

	assert.Contains(t, prompt, "markdown report for the company: acme.com")
	assert.Contains(t, prompt, "Recent news --> - **Launch**: Acme launched a product.")
	assert.Contains(t, prompt, `Competitors --> [{"company_name":"RivalSoft"}]`)
	assert.Contains(t, prompt, "Proud to announce our partnership with BigCo.\nWelcome MegaCorp!")
	assert.Contains(t, prompt, `Coresignal data:
{"company_name":"Acme Corp"}`)

	// Customer inference rules are specific to the CoreSignal-only prompt.
	assert.Contains(t, prompt, "infer potential customers")
	assert.Contains(t, prompt, `"partnership with [Company]"`)
	assert.Contains(t, prompt, "Do NOT include any emojis")
	assert.NotContains(t, prompt, "Apollo API")
}
