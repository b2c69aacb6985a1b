package report

import (
	"fmt"
	"strings"
	"time"
)

const notFound = "Not Found"

// TemplateReport composes a deterministic markdown report from a CoreSignal
// company profile. It is the fallback used when the report model is disabled
// or fails; every section is populated directly from the profile fields.
func TemplateReport(profile map[string]interface{}, generatedAt time.Time) string {
	companyName := getString(profile, "company_name")
	if companyName == "" {
		companyName = "Unknown Company"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# %s - Company Research Report\n\n", companyName)

	b.WriteString("## Company Industry Type & Description\n\n")
	fmt.Fprintf(&b, "**Industry:** %s  \n", orNotFound(getString(profile, "industry")))
	fmt.Fprintf(&b, "**Company Type:** %s  \n", orNotFound(getString(profile, "type")))
	fmt.Fprintf(&b, "**Status:** %s  \n\n", orNotFound(getNestedString(profile, "status", "value")))
	b.WriteString("### Description\n")
	fmt.Fprintf(&b, "%s\n\n", orNotFound(getString(profile, "description")))

	b.WriteString("## Contact Details\n\n")
	b.WriteString("### Address\n")
	fmt.Fprintf(&b, "**Headquarters:** %s  \n", orNotFound(getString(profile, "hq_location")))
	fmt.Fprintf(&b, "**Full Address:** %s  \n\n", orNotFound(getString(profile, "hq_full_address")))

	b.WriteString("### CEO Profile\n")
	writeCEOProfile(&b, profile)

	b.WriteString("\n## Website and LinkedIn Page\n\n")
	fmt.Fprintf(&b, "**Website:** %s  \n", orNotFound(getString(profile, "website")))
	fmt.Fprintf(&b, "**LinkedIn Company Page:** %s  \n", orNotFound(getString(profile, "linkedin_url")))
	fmt.Fprintf(&b, "**LinkedIn Followers:** %s followers  \n\n", orNotFound(getNumber(profile, "followers_count_linkedin")))

	b.WriteString("## Employee Count\n\n")
	fmt.Fprintf(&b, "**Current Employee Count:** %s  \n", orNotFound(getNumber(profile, "employees_count")))
	fmt.Fprintf(&b, "**Size Range:** %s  \n\n", orNotFound(getString(profile, "size_range")))

	b.WriteString("### Geographic Distribution\n")
	writeGeographicDistribution(&b, profile)

	b.WriteString("\n## Financing/Funding & Type\n\n")
	writeFunding(&b, profile)

	b.WriteString("\n## 3 Recent News Items\n\n")
	writeRecentNews(&b, profile)

	b.WriteString("## Enterprise Customers\n\n")
	writeCustomers(&b, profile)

	b.WriteString("\n## Competition & Basic Description\n\n")
	writeCompetitors(&b, profile)

	b.WriteString("\n---\n\n")
	b.WriteString("**Data Source:** CoreSignal Multi-Source API  \n")
	fmt.Fprintf(&b, "**Last Updated:** %s  \n", orNotFound(getString(profile, "last_updated_at")))
	fmt.Fprintf(&b, "**Report Generated:** %s\n\n", generatedAt.UTC().Format(time.RFC3339))
	b.WriteString("*This report was generated automatically from available data sources. Some information may be limited based on data availability.*\n")

	return b.String()
}

func writeCEOProfile(b *strings.Builder, profile map[string]interface{}) {
	for _, emp := range getSlice(profile, "employees") {
		e, ok := emp.(map[string]interface{})
		if !ok {
			continue
		}
		title := strings.ToLower(getString(e, "job_title"))
		if strings.Contains(title, "ceo") ||
			strings.Contains(title, "chief executive officer") ||
			strings.Contains(title, "founder") {
			fmt.Fprintf(b, "**Name:** %s  \n", orNotFound(getString(e, "full_name")))
			fmt.Fprintf(b, "**Title:** %s  \n", orNotFound(getString(e, "job_title")))
			fmt.Fprintf(b, "**LinkedIn:** %s  \n", orNotFound(getString(e, "linkedin_url")))
			fmt.Fprintf(b, "**Start Date:** %s  \n", orNotFound(getString(e, "job_start_date")))
			return
		}
	}
	b.WriteString("CEO information not found.\n")
}

func writeGeographicDistribution(b *strings.Builder, profile map[string]interface{}) {
	history := getSlice(profile, "employees_count_history")
	if len(history) == 0 {
		b.WriteString("Geographic distribution data not available.\n")
		return
	}
	latest, ok := history[0].(map[string]interface{})
	if !ok {
		b.WriteString("Geographic distribution data not available.\n")
		return
	}
	byCountry := getSlice(latest, "employees_count_by_country")
	if len(byCountry) == 0 {
		b.WriteString("Geographic distribution data not available.\n")
		return
	}
	for _, entry := range byCountry {
		c, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		country := getString(c, "country")
		if country == "" {
			country = "Unknown"
		}
		count := getNumber(c, "employee_count")
		if count == "" {
			count = "0"
		}
		fmt.Fprintf(b, "- **%s:** %s employees\n", country, count)
	}
}

func writeFunding(b *strings.Builder, profile map[string]interface{}) {
	if funding, ok := profile["funding_info"].(map[string]interface{}); ok && len(funding) > 0 {
		fmt.Fprintf(b, "**Total Funding:** %s  \n", orNotFound(getString(funding, "total_amount")))
		fmt.Fprintf(b, "**Funding Type:** %s  \n", orNotFound(getString(funding, "type")))
		fmt.Fprintf(b, "**Number of Rounds:** %s  \n", orNotFound(getNumber(funding, "rounds_count")))
		return
	}
	if strings.Contains(strings.ToLower(getNestedString(profile, "status", "comment")), "acquired") {
		b.WriteString("**Status:** Acquired  \n")
		return
	}
	b.WriteString("Funding information not available in current data source.\n")
}

func writeRecentNews(b *strings.Builder, profile map[string]interface{}) {
	updates := getSlice(profile, "company_updates")
	if len(updates) == 0 {
		b.WriteString("No recent news items found.\n\n")
		return
	}
	for i, raw := range updates {
		if i >= 3 {
			break
		}
		u, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Fprintf(b, "### News Item %d\n", i+1)
		date := getString(u, "date")
		if date == "" {
			date = "No Date"
		}
		fmt.Fprintf(b, "**Date:** %s  \n", date)
		b.WriteString("**Source:** LinkedIn Company Updates  \n")
		desc := getString(u, "description")
		if desc == "" {
			desc = "No description available"
		}
		fmt.Fprintf(b, "**Summary:** %s  \n", truncateText(desc, 200))
		if reactions := getNumber(u, "reactions_count"); reactions != "" {
			fmt.Fprintf(b, "**Engagement:** %s reactions", reactions)
			if comments := getNumber(u, "comments_count"); comments != "" {
				fmt.Fprintf(b, ", %s comments", comments)
			}
		}
		b.WriteString("\n\n")
	}
}

func writeCustomers(b *strings.Builder, profile map[string]interface{}) {
	all := append(getSlice(profile, "customers"), getSlice(profile, "enterprise_customers")...)
	if len(all) == 0 {
		b.WriteString("Enterprise customer information not available in current data source.\n")
		return
	}
	for i, raw := range all {
		if i >= 5 {
			break
		}
		c, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		name := getString(c, "name")
		if name == "" {
			name = "Unknown Customer"
		}
		fmt.Fprintf(b, "- **%s**", name)
		if industry := getString(c, "industry"); industry != "" {
			fmt.Fprintf(b, " - %s", industry)
		}
		if website := getString(c, "website"); website != "" {
			fmt.Fprintf(b, " - %s", website)
		}
		b.WriteString("\n")
	}
}

func writeCompetitors(b *strings.Builder, profile map[string]interface{}) {
	all := append(getSlice(profile, "competitors"), getSlice(profile, "competition")...)
	if len(all) > 0 {
		for i, raw := range all {
			if i >= 5 {
				break
			}
			c, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			name := getString(c, "name")
			if name == "" {
				name = "Unknown Competitor"
			}
			fmt.Fprintf(b, "### %s\n", name)
			if desc := getString(c, "description"); desc != "" {
				fmt.Fprintf(b, "%s\n", desc)
			}
			if website := getString(c, "website"); website != "" {
				fmt.Fprintf(b, "**Website:** %s  \n", website)
			}
			if industry := getString(c, "industry"); industry != "" {
				fmt.Fprintf(b, "**Industry:** %s  \n", industry)
			}
			b.WriteString("\n")
		}
		return
	}

	// No competitor data; suggest adjacent categories from keywords
	b.WriteString("Direct competitor information not available. Based on industry keywords, potential competitors may include companies in:\n")
	keywords := getSlice(profile, "categories_and_keywords")
	for i, raw := range keywords {
		if i >= 5 {
			break
		}
		kw, ok := raw.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(kw)
		if strings.Contains(lower, "software") || strings.Contains(lower, "technology") ||
			strings.Contains(lower, "platform") || strings.Contains(lower, "solution") {
			fmt.Fprintf(b, "- %s\n", kw)
		}
	}
}

func orNotFound(s string) string {
	if s == "" {
		return notFound
	}
	return s
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func getString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getNestedString(m map[string]interface{}, key, nested string) string {
	if m == nil {
		return ""
	}
	if inner, ok := m[key].(map[string]interface{}); ok {
		return getString(inner, nested)
	}
	return ""
}

// getNumber formats a numeric field; JSON numbers decode as float64
func getNumber(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case string:
		return v
	}
	return ""
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	if m == nil {
		return nil
	}
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}
