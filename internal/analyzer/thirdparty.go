package analyzer

import (
	"sort"
	"strings"

	"harlens/internal/index"
	"harlens/pkg/types"
)

// categoryKeywords matches domains by substring into third-party
// categories. Unmatched domains fall into "other".
var categoryKeywords = map[string][]string{
	"analytics":   {"google-analytics", "googletagmanager", "analytics", "gtm", "mixpanel", "segment"},
	"advertising": {"doubleclick", "adsystem", "googlesyndication", "facebook.com", "adsrvr", "amazon-adsystem"},
	"social":      {"facebook", "twitter", "linkedin", "instagram", "pinterest", "youtube"},
	"cdn":         {"cloudflare", "amazonaws", "cloudfront", "fastly", "jsdelivr", "cdnjs"},
	"performance": {"signalfx", "newrelic", "datadog", "pingdom"},
	"security":    {"cookielaw", "onetrust", "cloudflare"},
	"fonts":       {"fonts.googleapis", "fonts.gstatic", "typekit"},
	"maps":        {"maps.googleapis", "mapbox"},
}

// categoryOrder fixes the keyword evaluation order so a domain matching
// multiple categories always resolves the same way.
var categoryOrder = []string{
	"analytics", "advertising", "social", "cdn",
	"performance", "security", "fonts", "maps",
}

// CategorizeDomain resolves a domain to its third-party category.
func CategorizeDomain(domain string) string {
	lower := strings.ToLower(domain)
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return "other"
}

// Thresholds of the blocking-domain heuristic: a domain is blocking when
// its individually-slow requests (>1s each) accumulate past 2s.
const (
	slowRequestThresholdMs = 1000
	blockingDomainMs       = 2000
)

// AnalyzeThirdParty categorizes every request domain and ranks domain and
// category impact. DomainImpact carries the top 15 domains by total time.
func AnalyzeThirdParty(idx *index.Index) types.ThirdPartyAnalysis {
	type domainAcc struct {
		name   string
		impact types.DomainImpact
	}
	accs := make([]domainAcc, 0)
	for _, domain := range idx.Domains() {
		group := idx.Select(idx.Domain(domain))
		imp := types.DomainImpact{Category: CategorizeDomain(domain)}
		for _, r := range group {
			imp.Requests++
			imp.TotalTime += r.Time
			imp.TotalSize += r.BodySize()
			if r.Time > slowRequestThresholdMs {
				imp.BlockingTime += r.Time
			}
			if r.Failed() {
				imp.FailedRequests++
			}
		}
		imp.AvgTime = round1(imp.TotalTime / float64(imp.Requests))
		imp.TotalSizeKB = round1(float64(imp.TotalSize) / 1024)
		accs = append(accs, domainAcc{name: domain, impact: imp})
	}

	sort.SliceStable(accs, func(i, j int) bool {
		if accs[i].impact.TotalTime != accs[j].impact.TotalTime {
			return accs[i].impact.TotalTime > accs[j].impact.TotalTime
		}
		return accs[i].name < accs[j].name
	})

	analysis := types.ThirdPartyAnalysis{
		DomainImpact:           make(map[string]types.DomainImpact),
		CategoryBreakdown:      make(map[string]types.CategoryStats),
		TotalThirdPartyDomains: len(accs),
		HighImpactDomains:      make([]string, 0, 5),
		BlockingThirdParties:   make([]string, 0),
	}

	for i, acc := range accs {
		if i < 15 {
			analysis.DomainImpact[acc.name] = acc.impact
		}
		if i < 5 {
			analysis.HighImpactDomains = append(analysis.HighImpactDomains, acc.name)
		}
		if acc.impact.BlockingTime > blockingDomainMs {
			analysis.BlockingThirdParties = append(analysis.BlockingThirdParties, acc.name)
		}

		cat := analysis.CategoryBreakdown[acc.impact.Category]
		cat.Domains++
		cat.Requests += acc.impact.Requests
		cat.TotalTime += acc.impact.TotalTime
		if acc.impact.BlockingTime > 0 {
			cat.BlockingRequests++
		}
		analysis.CategoryBreakdown[acc.impact.Category] = cat
	}
	sort.Strings(analysis.BlockingThirdParties)
	return analysis
}
