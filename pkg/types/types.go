// Package types defines the agent_summary.json contract shared by the
// synthesizer, the schema tooling, and the MCP tools. Downstream report
// generators consume exactly this shape.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Tool output fields that must be any (instead of json.RawMessage) to satisfy
// the MCP SDK's schema validation go through this.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Grade is the overall performance verdict derived from page load time.
type Grade string

// Performance grades, ordered worst to best. Unknown means the capture
// carried no onLoad timing.
const (
	GradeCritical Grade = "CRITICAL"
	GradePoor     Grade = "POOR"
	GradeFair     Grade = "FAIR"
	GradeGood     Grade = "GOOD"
	GradeUnknown  Grade = "UNKNOWN"
)

// NotAvailable is the marker used wherever a page-level timing is absent
// from the capture. Absence is never rendered as 0.
const NotAvailable = "Not available"

// AgentSummary is the single JSON artifact produced per analysis run.
type AgentSummary struct {
	PerformanceSummary         PerformanceSummary   `json:"performance_summary"`
	CriticalIssues             CriticalIssues       `json:"critical_issues"`
	ResourceBreakdown          map[string]int       `json:"resource_breakdown"`
	LargestAssets              []LargestAsset       `json:"largest_assets"`
	SlowestRequests            []SlowRequest        `json:"slowest_requests"`
	FailedRequests             []FailedRequest      `json:"failed_requests"`
	CompressionAnalysis        CompressionAnalysis  `json:"compression_analysis"`
	CachingAnalysis            CachingAnalysis      `json:"caching_analysis"`
	DNSConnectionAnalysis      NetworkAnalysis      `json:"dns_connection_analysis"`
	EnhancedThirdPartyAnalysis ThirdPartyAnalysis   `json:"enhanced_third_party_analysis"`
	CriticalPathAnalysis       CriticalPathAnalysis `json:"critical_path_analysis"`
}

// PerformanceSummary carries page-level load metrics and the grade.
// Timing strings are formatted in seconds ("6.0s") or NotAvailable.
type PerformanceSummary struct {
	TotalRequests    int    `json:"total_requests"`
	DOMReadyTime     string `json:"dom_ready_time"`
	PageLoadTime     string `json:"page_load_time"`
	PerformanceGrade Grade  `json:"performance_grade"`
}

// CriticalIssues counts the headline problems of a capture.
type CriticalIssues struct {
	VerySlowRequests  int  `json:"very_slow_requests"`
	SlowRequests      int  `json:"slow_requests"`
	FailedRequests    int  `json:"failed_requests"`
	ExcessiveRequests bool `json:"excessive_requests"`
}

// LargestAsset is one entry of the top-by-size list.
type LargestAsset struct {
	URL    string  `json:"url"`
	SizeKB float64 `json:"size_kb"`
}

// SlowRequest is one entry of the top-by-time list.
type SlowRequest struct {
	URL    string `json:"url"`
	TimeMs int    `json:"time_ms"`
}

// FailedRequest records a request that completed with status >= 400.
type FailedRequest struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// CompressionAnalysis lists text resources served without content-encoding.
// Savings use a flat 70% estimate; the constant is part of the contract
// downstream reports depend on, not a measurement.
type CompressionAnalysis struct {
	UncompressedResources    []UncompressedResource `json:"uncompressed_resources"`
	TotalPotentialSavingsKB  float64                `json:"total_potential_savings_kb"`
	TotalCompressibleKB      float64                `json:"total_compressible_kb"`
	CompressionOpportunities int                    `json:"compression_opportunity_count"`
}

// UncompressedResource is a compressible response lacking content-encoding.
type UncompressedResource struct {
	URL              string `json:"url"`
	Size             int64  `json:"size"`
	ContentType      string `json:"contentType"`
	PotentialSavings int64  `json:"potential_savings"`
}

// CachingAnalysis flags responses with missing or weak cache policy.
type CachingAnalysis struct {
	NoCacheResources        []NoCacheResource    `json:"no_cache_resources"`
	ShortCacheResources     []ShortCacheResource `json:"short_cache_resources"`
	WellCachedCount         int                  `json:"well_cached_count"`
	CacheOptimizationCount  int                  `json:"cache_optimization_count"`
	TotalPotentialSavingsKB float64              `json:"total_potential_savings_kb"`
}

// NoCacheResource is a response with neither cache-control nor expires.
type NoCacheResource struct {
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ResourceType string `json:"resourceType"`
}

// ShortCacheResource is a response cached for less than one hour.
type ShortCacheResource struct {
	URL          string  `json:"url"`
	MaxAgeHours  float64 `json:"max_age_hours"`
	ResourceType string  `json:"resourceType"`
}

// NetworkAnalysis aggregates DNS, SSL, and connect timing per domain.
type NetworkAnalysis struct {
	DomainPerformance       []DomainPerformance `json:"domain_performance"`
	SlowDNSResolutions      []SlowDNS           `json:"slow_dns_resolutions"`
	SlowSSLHandshakes       []SlowSSL           `json:"slow_ssl_handshakes"`
	AvgDNSTime              Average             `json:"avg_dns_time"`
	AvgSSLTime              Average             `json:"avg_ssl_time"`
	ConnectionReusePercent  float64             `json:"connection_reuse_percentage"`
	ReusedConnections       int                 `json:"reused_connections"`
	NewConnections          int                 `json:"new_connections"`
	TotalConnectionRequests int                 `json:"total_connection_requests"`
}

// DomainPerformance is one domain's aggregated network timing.
type DomainPerformance struct {
	Domain       string  `json:"domain"`
	Requests     int     `json:"requests"`
	AvgDNSMs     float64 `json:"avg_dns_ms"`
	AvgSSLMs     float64 `json:"avg_ssl_ms"`
	AvgConnectMs float64 `json:"avg_connect_ms"`
	TotalTimeMs  float64 `json:"total_time_ms"`
}

// SlowDNS is a DNS resolution above the 100ms threshold.
type SlowDNS struct {
	URL     string  `json:"url"`
	DNSTime float64 `json:"dns_time"`
	Domain  string  `json:"domain"`
}

// SlowSSL is an SSL handshake above the 500ms threshold.
type SlowSSL struct {
	URL     string  `json:"url"`
	SSLTime float64 `json:"ssl_time"`
	Domain  string  `json:"domain"`
}

// ThirdPartyAnalysis categorizes request domains and ranks their impact.
type ThirdPartyAnalysis struct {
	DomainImpact           map[string]DomainImpact  `json:"domain_impact"`
	CategoryBreakdown      map[string]CategoryStats `json:"category_breakdown"`
	TotalThirdPartyDomains int                      `json:"total_third_party_domains"`
	HighImpactDomains      []string                 `json:"high_impact_domains"`
	BlockingThirdParties   []string                 `json:"blocking_third_parties"`
}

// DomainImpact is one domain's accumulated load contribution.
type DomainImpact struct {
	Category       string  `json:"category"`
	Requests       int     `json:"requests"`
	TotalTime      float64 `json:"total_time"`
	TotalSize      int64   `json:"total_size"`
	AvgTime        float64 `json:"avg_time"`
	BlockingTime   float64 `json:"blocking_time"`
	FailedRequests int     `json:"failed_requests"`
	TotalSizeKB    float64 `json:"total_size_kb"`
}

// CategoryStats rolls domain impact up per third-party category.
type CategoryStats struct {
	Domains          int     `json:"domains"`
	Requests         int     `json:"requests"`
	TotalTime        float64 `json:"total_time"`
	BlockingRequests int     `json:"blocking_requests"`
}

// CriticalPathAnalysis approximates the render-blocking resource set.
// AnalysisAvailable=false is a result, not an error: Reason and Debug carry
// the diagnostics and the remaining fields are zero.
type CriticalPathAnalysis struct {
	BlockingResources      []BlockingResource `json:"blocking_resources"`
	BlockingResourcesCount int                `json:"blocking_resources_count"`
	CSSBlockingCount       int                `json:"css_blocking_count"`
	JSBlockingCount        int                `json:"js_blocking_count"`
	CriticalPathTimeMs     float64            `json:"critical_path_time_ms"`
	CriticalPathFormatted  string             `json:"critical_path_time_formatted,omitempty"`
	HasRenderBlockingCSS   bool               `json:"has_render_blocking_css"`
	HasRenderBlockingJS    bool               `json:"has_render_blocking_js"`
	Recommendations        []string           `json:"recommendations,omitempty"`
	AnalysisAvailable      bool               `json:"analysis_available"`
	SourceDocument         *SourceDocument    `json:"source_document,omitempty"`
	Reason                 string             `json:"error,omitempty"`
	Debug                  *CriticalPathDebug `json:"debug_info,omitempty"`
}

// BlockingResource is a stylesheet or synchronous head script. FoundInHAR
// is false when the tag referenced a URL absent from the capture; such
// resources are still counted but contribute zero timing.
type BlockingResource struct {
	URL        string  `json:"url"`
	Type       string  `json:"type"`
	Size       int64   `json:"size"`
	Time       float64 `json:"time"`
	Status     int     `json:"status,omitempty"`
	FoundInHAR bool    `json:"found_in_har"`
}

// SourceDocument identifies the HTML entry the head was parsed from.
type SourceDocument struct {
	URL           string `json:"url"`
	ContentLength int    `json:"content_length"`
	Index         int    `json:"index"`
}

// CriticalPathDebug aids debugging when no document could be analyzed.
type CriticalPathDebug struct {
	TotalEntries int      `json:"total_entries"`
	Suggestion   string   `json:"suggestion,omitempty"`
	FirstFewURLs []string `json:"first_few_urls,omitempty"`
	SelectedURL  string   `json:"selected_url,omitempty"`
	Candidates   int      `json:"html_candidates_count,omitempty"`
}
