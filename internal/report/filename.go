// Package report assembles company research reports: markdown composition,
// PDF conversion and output file naming.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/companyintel/research-api/internal/domain"
)

// SafeName reduces a company name to characters safe for filenames.
// Alphanumerics, spaces, dashes and underscores are kept; spaces become
// underscores. An empty result falls back to "company".
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "company"
	}
	return s
}

// Filename builds the timestamped PDF filename for a report, e.g.
// Acme_Corp_multi_source_report_20250102_150405.pdf
func Filename(companyName string, kind domain.ResearchKind, ts time.Time) string {
	return fmt.Sprintf("%s_%s_report_%s.pdf", SafeName(companyName), kind, ts.Format("20060102_150405"))
}

// CompanyNameFromDomain derives a display name from a bare domain when no
// vendor supplied one: "acme-corp.com" becomes "Acme-Corp".
func CompanyNameFromDomain(domainName string) string {
	name := strings.TrimPrefix(domainName, "www.")
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return domainName
	}
	return titleCase(name)
}

// titleCase capitalizes the first letter of each dash or underscore separated
// word, matching how a domain label reads as a company name.
func titleCase(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if r == '-' || r == '_' || r == ' ' {
			upperNext = true
			b.WriteRune(r)
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 32)
		} else {
			b.WriteRune(r)
		}
		upperNext = false
	}
	return b.String()
}
