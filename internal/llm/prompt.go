package llm

import (
	"fmt"
	"strings"
)

// fieldCatalog names the sections and fields the model should cover when
// composing a multi-source report.
const fieldCatalog = `Company Overview:
- Company Name
- Website
- Description
- Founded Year
- Status
- Type
Industry and Market:
- Industry
- Keywords
Location
- HQ and other locations Address, City, State, Country
Contact Details - Emails, Phone no.
Leadership & Key Executives:
- Name, Title, LinkedIn Profile
Employee Insights
- Employee Count
- Ratings
- Employees by Location
- Employees by Title
- Employee Growth
Financials:
- Annual Revenue
- Recent Financial Performance
Funding and Ownership
- Funding Rounds
- Total Funding
- Recent Funding
- Private or Public
- Investors
Competitors:
- Name
- Revenue and total funding
Recent News:
- News Title
- News Summary
- News Date
- Source URL
Enterprise Customers
Online Presence - Website, LinkedIn
- Links
- Followers`

// MultiSourceData carries the inputs for a combined CoreSignal, Apollo and
// Tavily report prompt. The JSON payloads are passed through verbatim.
type MultiSourceData struct {
	CompanyName      string
	CoreSignalJSON   string
	ApolloJSON       string
	CustomersSection string
}

// MultiSourceReportPrompt builds the prompt for the combined report.
func MultiSourceReportPrompt(d MultiSourceData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a research assistant specialized in company analysis. Generate a structured, human-readable markdown report for the company: %s using the following data fields and data sources in json format.\n\n", d.CompanyName)

	b.WriteString("## Data fields:\n")
	b.WriteString(fieldCatalog)
	b.WriteString("\n\n## Data Sources:\n")
	fmt.Fprintf(&b, "Coresignal API: %s\n", d.CoreSignalJSON)
	fmt.Fprintf(&b, "Apollo API: %s\n\n", d.ApolloJSON)
	fmt.Fprintf(&b, "## Major/Enterprise Customers (from Tavily)\nData: %s\n---\n\n", d.CustomersSection)

	b.WriteString(`Instructions:
- Use only the provided data. Do not fabricate or add any information not present above.
- For each section, if data is missing or empty, state "No relevant data found."
- Remove duplicates and ensure each entry is unique.
- Format the report in clear, well-structured markdown with the above sections. Each section should be a separate markdown heading.
- **IMPORTANT** Mention sources for each section. If it is a link create a markdown link. Mark N/A if no source is available.
- Do not include any information not present in the provided data.
- Extract the source url from the news item/corresponding company update description and add it to the news item.
- For Tavily data, create a markdown link for the source url.
- **VERY IMPORTANT: Do NOT include any emojis, special characters, or symbols in the report as they can cause PDF generation issues. Use only standard text, numbers, and basic punctuation.**
`)

	return b.String()
}

// CoreSignalData carries the inputs for a CoreSignal-only report prompt.
type CoreSignalData struct {
	Website         string
	CoreSignalJSON  string
	NewsSection     string
	CompetitorsJSON string
	CompanyUpdates  []string
}

// CoreSignalReportPrompt builds the prompt for a report written from
// CoreSignal data alone. Company updates are included so the model can infer
// enterprise customers from announcement language.
func CoreSignalReportPrompt(d CoreSignalData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a research assistant specialized in company analysis. Generate a structured, human-readable markdown report for the company: %s using the following data fields.\n\n", d.Website)

	b.WriteString("## Data fields:\n")
	b.WriteString(fieldCatalog)
	fmt.Fprintf(&b, "\nRecent news --> %s\n", d.NewsSection)
	b.WriteString("Funding --> last_funding_round, funding_rounds\n")
	fmt.Fprintf(&b, "Competitors --> %s\n", d.CompetitorsJSON)
	fmt.Fprintf(&b, "Company Updates for Customer Analysis --> %s\n\n", strings.Join(d.CompanyUpdates, "\n"))

	fmt.Fprintf(&b, "Coresignal data:\n%s\n\n", d.CoreSignalJSON)

	b.WriteString(`Instructions:
- Use only the provided data. Do not fabricate or add any information not present above.
- For each section, if data is missing or empty, state "No relevant data found."
- Remove duplicates and ensure each entry is unique.
- Format the report in clear, well-structured markdown with the above sections.
- Extract the source url from the news item/corresponding company update description and add it to the news item.
- **VERY IMPORTANT: Do NOT include any emojis, special characters, or symbols in the report as they can cause PDF generation issues. Use only standard text, numbers, and basic punctuation.**
- For Enterprise Customers section: Carefully analyze the company updates to infer potential customers and clients by looking for:
  * Direct mentions of company names as clients, customers, or partners
  * Success stories or case studies mentioning specific organizations
  * Announcements about new partnerships, collaborations, or deals
  * Posts celebrating client wins, implementations, or go-lives
  * Thank you messages or shout-outs to specific companies
  * Event participation or speaking engagements with other organizations
  * Product launches or feature announcements mentioning specific users/companies
- Look for linguistic patterns like: "partnership with [Company]", "client [Company]", "working with [Company]", "proud to announce [Company]", "congratulations to [Company]", "[Company] is now using", "implementation at [Company]"
- Extract company names from these contexts and list them as potential enterprise customers
- If no clear customer mentions are found in updates, state "No customer information could be inferred from available company updates"
`)

	return b.String()
}
