// Package research orchestrates company research: it fans out to the vendor
// APIs, caches raw responses, resolves the company name and produces the
// markdown report body.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/companyintel/research-api/internal/apollo"
	"github.com/companyintel/research-api/internal/config"
	"github.com/companyintel/research-api/internal/coresignal"
	"github.com/companyintel/research-api/internal/domain"
	"github.com/companyintel/research-api/internal/llm"
	"github.com/companyintel/research-api/internal/report"
	"github.com/companyintel/research-api/internal/repository"
	"github.com/companyintel/research-api/internal/tavily"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GeneratedByModel and GeneratedByTemplate record how a report body was produced.
const (
	GeneratedByModel    = "llm"
	GeneratedByTemplate = "template"
)

// Result is the outcome of a research run. Raw carries the vendor payloads
// the report was built from, for callers that asked for the data back.
type Result struct {
	Kind        domain.ResearchKind
	Website     string
	CompanyName string
	Markdown    string
	GeneratedBy string
	Raw         map[string]interface{}
}

// Researcher coordinates the vendor clients, the cache and the report writer.
type Researcher struct {
	coresignal *coresignal.Client
	apollo     *apollo.Client
	tavily     *tavily.Client
	writer     llm.Writer
	cache      *repository.VendorCacheRepository
	cacheCfg   config.CacheConfig
	logger     *zap.Logger
}

// NewResearcher creates a new researcher. writer may be nil (template
// reports only); cache may be nil (no response caching).
func NewResearcher(
	cs *coresignal.Client,
	ap *apollo.Client,
	tv *tavily.Client,
	writer llm.Writer,
	cache *repository.VendorCacheRepository,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) *Researcher {
	return &Researcher{
		coresignal: cs,
		apollo:     ap,
		tavily:     tv,
		writer:     writer,
		cache:      cache,
		cacheCfg:   cacheCfg,
		logger:     logger,
	}
}

// Domain reduces a website input to a bare domain: scheme, www prefix and
// path are stripped. "https://www.example.com/about" becomes "example.com".
func Domain(website string) string {
	d := strings.TrimSpace(website)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// MultiSource runs the combined CoreSignal, Apollo and Tavily research
// pipeline. The three vendor calls run concurrently. Research proceeds with
// partial data when a source fails, but fails outright when neither company
// data vendor returned anything.
func (r *Researcher) MultiSource(ctx context.Context, website string) (*Result, error) {
	domainName := Domain(website)
	provisionalName := report.CompanyNameFromDomain(domainName)

	var (
		coresignalData map[string]interface{}
		apolloData     map[string]interface{}
		customers      []tavily.SearchResult
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := r.fetchCoreSignal(gctx, website)
		if err != nil {
			r.logger.Warn("CoreSignal fetch failed, continuing without it",
				zap.String("website", website),
				zap.Error(err),
			)
			return nil
		}
		coresignalData = data
		return nil
	})

	g.Go(func() error {
		data, err := r.fetchApollo(gctx, domainName)
		if err != nil {
			r.logger.Warn("Apollo fetch failed, continuing without it",
				zap.String("domain", domainName),
				zap.Error(err),
			)
			return nil
		}
		apolloData = data
		return nil
	})

	g.Go(func() error {
		results, err := r.fetchCustomers(gctx, provisionalName)
		if err != nil {
			r.logger.Warn("Tavily customer search failed, continuing without it",
				zap.String("company", provisionalName),
				zap.Error(err),
			)
			return nil
		}
		customers = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if coresignalData == nil && apolloData == nil {
		return nil, fmt.Errorf("no company data available for %s: all vendor sources failed", website)
	}

	companyName := resolveCompanyName(apolloData, coresignalData, domainName)

	result := &Result{
		Kind:        domain.ResearchKindMultiSource,
		Website:     website,
		CompanyName: companyName,
		Raw: map[string]interface{}{
			"coresignal_data":  coresignalData,
			"apollo_data":      apolloData,
			"tavily_customers": customers,
		},
	}

	if r.writer != nil && r.writer.IsEnabled() {
		prompt := llm.MultiSourceReportPrompt(llm.MultiSourceData{
			CompanyName:      companyName,
			CoreSignalJSON:   marshalForPrompt(coresignalData),
			ApolloJSON:       marshalForPrompt(apolloData),
			CustomersSection: formatSearchResults(customers),
		})

		markdown, err := r.writer.WriteReport(ctx, prompt)
		if err == nil {
			result.Markdown = markdown
			result.GeneratedBy = GeneratedByModel
			return result, nil
		}
		r.logger.Warn("Report model failed, falling back to template report",
			zap.String("company", companyName),
			zap.Error(err),
		)
	}

	result.Markdown = report.TemplateReport(coresignalData, time.Now())
	result.GeneratedBy = GeneratedByTemplate
	return result, nil
}

// CoreSignal runs the CoreSignal-only research pipeline.
func (r *Researcher) CoreSignal(ctx context.Context, website string) (*Result, error) {
	data, err := r.fetchCoreSignal(ctx, website)
	if err != nil {
		return nil, fmt.Errorf("coresignal research failed: %w", err)
	}

	domainName := Domain(website)
	companyName := resolveCompanyName(nil, data, domainName)

	result := &Result{
		Kind:        domain.ResearchKindCoreSignal,
		Website:     website,
		CompanyName: companyName,
		Raw: map[string]interface{}{
			"coresignal_data": data,
		},
	}

	if r.writer != nil && r.writer.IsEnabled() {
		prompt := llm.CoreSignalReportPrompt(llm.CoreSignalData{
			Website:         website,
			CoreSignalJSON:  marshalForPrompt(data),
			NewsSection:     newsSection(data),
			CompetitorsJSON: marshalForPrompt(topCompetitors(data, 5)),
			CompanyUpdates:  updateDescriptions(data),
		})

		markdown, err := r.writer.WriteReport(ctx, prompt)
		if err == nil {
			result.Markdown = markdown
			result.GeneratedBy = GeneratedByModel
			return result, nil
		}
		r.logger.Warn("Report model failed, falling back to template report",
			zap.String("company", companyName),
			zap.Error(err),
		)
	}

	result.Markdown = report.TemplateReport(data, time.Now())
	result.GeneratedBy = GeneratedByTemplate
	return result, nil
}

// resolveCompanyName picks the display name: Apollo organization name first,
// then the CoreSignal company name, then Apollo's top-level name, finally the
// domain label title-cased.
func resolveCompanyName(apolloData, coresignalData map[string]interface{}, domainName string) string {
	if org := apollo.Organization(apolloData); org != nil {
		if name, ok := org["name"].(string); ok && name != "" {
			return name
		}
	}
	if coresignalData != nil {
		if name, ok := coresignalData["company_name"].(string); ok && name != "" {
			return name
		}
	}
	if apolloData != nil {
		if name, ok := apolloData["name"].(string); ok && name != "" {
			return name
		}
	}
	return report.CompanyNameFromDomain(domainName)
}

// normalizeWebsite prefixes bare domain inputs with https:// so the value
// matches the website URLs CoreSignal indexes.
func normalizeWebsite(website string) string {
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "https://" + website
}

func (r *Researcher) fetchCoreSignal(ctx context.Context, website string) (map[string]interface{}, error) {
	if r.coresignal == nil || !r.coresignal.IsEnabled() {
		return nil, fmt.Errorf("coresignal client is not configured")
	}

	website = normalizeWebsite(website)

	if payload, ok := r.cacheGet(ctx, domain.VendorCoreSignal, website); ok {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &data); err == nil {
			r.logger.Debug("CoreSignal cache hit", zap.String("website", website))
			return data, nil
		}
	}

	data, err := r.coresignal.Enrich(ctx, website)
	if err != nil {
		return nil, err
	}

	r.cachePut(ctx, domain.VendorCoreSignal, website, data)
	return data, nil
}

func (r *Researcher) fetchApollo(ctx context.Context, domainName string) (map[string]interface{}, error) {
	if r.apollo == nil || !r.apollo.IsEnabled() {
		return nil, fmt.Errorf("apollo client is not configured")
	}

	if payload, ok := r.cacheGet(ctx, domain.VendorApollo, domainName); ok {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &data); err == nil {
			r.logger.Debug("Apollo cache hit", zap.String("domain", domainName))
			return data, nil
		}
	}

	data, err := r.apollo.EnrichOrganization(ctx, domainName)
	if err != nil {
		return nil, err
	}

	r.cachePut(ctx, domain.VendorApollo, domainName, data)
	return data, nil
}

// fetchCustomers searches for major and enterprise customers of the company.
func (r *Researcher) fetchCustomers(ctx context.Context, companyName string) ([]tavily.SearchResult, error) {
	if r.tavily == nil || !r.tavily.IsEnabled() {
		return nil, nil
	}

	query := fmt.Sprintf("Who are the major/enterprise customers of %s?", companyName)

	if payload, ok := r.cacheGet(ctx, domain.VendorTavily, query); ok {
		var results []tavily.SearchResult
		if err := json.Unmarshal([]byte(payload), &results); err == nil {
			r.logger.Debug("Tavily cache hit", zap.String("query", query))
			return results, nil
		}
	}

	resp, err := r.tavily.Search(ctx, tavily.SearchRequest{
		Query:       query,
		MaxResults:  5,
		SearchDepth: "advanced",
	})
	if err != nil {
		return nil, err
	}

	r.cachePut(ctx, domain.VendorTavily, query, resp.Results)
	return resp.Results, nil
}

func (r *Researcher) cacheGet(ctx context.Context, vendor domain.VendorSource, key string) (string, bool) {
	if r.cache == nil || !r.cacheCfg.Enabled {
		return "", false
	}
	payload, ok, err := r.cache.Get(ctx, vendor, key)
	if err != nil {
		r.logger.Warn("Vendor cache read failed",
			zap.String("vendor", string(vendor)),
			zap.Error(err),
		)
		return "", false
	}
	return payload, ok
}

func (r *Researcher) cachePut(ctx context.Context, vendor domain.VendorSource, key string, value interface{}) {
	if r.cache == nil || !r.cacheCfg.Enabled {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.cache.Put(ctx, vendor, key, string(payload), r.cacheCfg.TTLDuration()); err != nil {
		r.logger.Warn("Vendor cache write failed",
			zap.String("vendor", string(vendor)),
			zap.Error(err),
		)
	}
}

// formatSearchResults renders Tavily hits as markdown bullets with sources.
func formatSearchResults(results []tavily.SearchResult) string {
	if len(results) == 0 {
		return "No relevant data found"
	}
	var b strings.Builder
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "No title."
		}
		content := r.Content
		if content == "" {
			content = "No summary available."
		}
		url := r.URL
		if url == "" {
			url = "No URL."
		}
		fmt.Fprintf(&b, "- **%s**: %s [Source](%s)\n", title, content, url)
	}
	return b.String()
}

func marshalForPrompt(v interface{}) string {
	if v == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// newsSection formats the three most recent company updates as news items.
func newsSection(profile map[string]interface{}) string {
	updates, _ := profile["company_updates"].([]interface{})
	if len(updates) == 0 {
		return "No recent news items found.\n"
	}

	var b strings.Builder
	for i, raw := range updates {
		if i >= 3 {
			break
		}
		u, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "### News Item %d\n", i+1)
		date, _ := u["date"].(string)
		if date == "" {
			date = "No Date"
		}
		fmt.Fprintf(&b, "**Date:** %s  \n", date)
		desc, _ := u["description"].(string)
		if desc == "" {
			desc = "No description available"
		}
		if len(desc) > 500 {
			desc = desc[:500] + "..."
		}
		fmt.Fprintf(&b, "**Summary:** %s  \n", desc)
		if reactions, ok := u["reactions_count"].(float64); ok && reactions > 0 {
			fmt.Fprintf(&b, "**Engagement:** %d reactions", int64(reactions))
			if comments, ok := u["comments_count"].(float64); ok && comments > 0 {
				fmt.Fprintf(&b, ", %d comments", int64(comments))
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// topCompetitors returns up to n competitors ordered by similarity score.
func topCompetitors(profile map[string]interface{}, n int) []map[string]interface{} {
	raw, _ := profile["competitors"].([]interface{})
	competitors := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if c, ok := item.(map[string]interface{}); ok {
			competitors = append(competitors, c)
		}
	}

	score := func(c map[string]interface{}) float64 {
		if s, ok := c["similarity_score"].(float64); ok {
			return s
		}
		return 0
	}

	// Insertion sort; competitor lists are small
	for i := 1; i < len(competitors); i++ {
		for j := i; j > 0 && score(competitors[j]) > score(competitors[j-1]); j-- {
			competitors[j], competitors[j-1] = competitors[j-1], competitors[j]
		}
	}

	if len(competitors) > n {
		competitors = competitors[:n]
	}
	return competitors
}

// updateDescriptions collects all company update descriptions for the
// customer-inference prompt section.
func updateDescriptions(profile map[string]interface{}) []string {
	updates, _ := profile["company_updates"].([]interface{})
	descriptions := make([]string, 0, len(updates))
	for _, raw := range updates {
		if u, ok := raw.(map[string]interface{}); ok {
			if desc, ok := u["description"].(string); ok {
				descriptions = append(descriptions, desc)
			}
		}
	}
	return descriptions
}
