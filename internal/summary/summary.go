// Package summary synthesizes the per-capture agent_summary.json artifact
// from the analyzer outputs. Synthesis is pure and total: given the same
// capture it always produces the same artifact, and page-level timings the
// capture never measured surface as explicit "Not available" markers.
package summary

import (
	"fmt"
	"math"
	"strings"

	"harlens/internal/analyzer"
	"harlens/internal/har"
	"harlens/internal/index"
	"harlens/pkg/types"
)

// FileName is the artifact written per analysis run.
const FileName = "agent_summary.json"

// Grade thresholds in seconds, applied to the rounded page load time.
const (
	gradeCriticalSec = 10
	gradePoorSec     = 5
	gradeFairSec     = 3
)

// excessiveRequestCount is the request count above which a capture is
// flagged as making excessive requests.
const excessiveRequestCount = 100

// summaryURLMax bounds URLs in the ranking lists; failed requests keep the
// full URL so they stay actionable.
const summaryURLMax = 80

// Grade maps a page load time in milliseconds to the performance grade.
// nil means the capture carried no onLoad milestone and grades as UNKNOWN.
func Grade(pageLoadMs *float64) types.Grade {
	if pageLoadMs == nil {
		return types.GradeUnknown
	}
	seconds := roundSeconds(*pageLoadMs)
	switch {
	case seconds > gradeCriticalSec:
		return types.GradeCritical
	case seconds > gradePoorSec:
		return types.GradePoor
	case seconds > gradeFairSec:
		return types.GradeFair
	default:
		return types.GradeGood
	}
}

// Inputs carries everything Synthesize needs.
type Inputs struct {
	HAR          *har.HAR
	Index        *index.Index
	Timing       *analyzer.TimingReport
	Compression  types.CompressionAnalysis
	Caching      types.CachingAnalysis
	Network      types.NetworkAnalysis
	ThirdParty   types.ThirdPartyAnalysis
	CriticalPath types.CriticalPathAnalysis

	// TopN bounds the largest/slowest lists. Zero means 5.
	TopN int
}

// Synthesize assembles the agent summary artifact.
func Synthesize(in Inputs) types.AgentSummary {
	topN := in.TopN
	if topN <= 0 {
		topN = 5
	}

	var domReady, pageLoad *float64
	if page := in.HAR.MainPage(); page != nil {
		domReady = page.PageTimings.OnContentLoadMs()
		pageLoad = page.PageTimings.OnLoadMs()
	}

	records := in.Index.Records()
	failed := make([]types.FailedRequest, 0, len(in.Timing.Failed))
	for _, r := range in.Timing.Failed {
		failed = append(failed, types.FailedRequest{URL: r.URL, Status: r.Status})
	}

	largest := make([]types.LargestAsset, 0, topN)
	for _, r := range capRecords(in.Timing.Largest, topN) {
		largest = append(largest, types.LargestAsset{
			URL:    truncateURL(r.URL),
			SizeKB: round1(float64(r.Size) / 1024),
		})
	}

	slowest := make([]types.SlowRequest, 0, topN)
	for _, r := range capRecords(in.Timing.Slowest, topN) {
		slowest = append(slowest, types.SlowRequest{
			URL:    truncateURL(r.URL),
			TimeMs: int(math.Round(r.Time)),
		})
	}

	breakdown := make(map[string]int, len(in.Index.Types()))
	for _, t := range in.Index.Types() {
		breakdown[string(t)] = int(in.Index.Type(t).GetCardinality())
	}

	return types.AgentSummary{
		PerformanceSummary: types.PerformanceSummary{
			TotalRequests:    len(records),
			DOMReadyTime:     FormatSeconds(domReady),
			PageLoadTime:     FormatSeconds(pageLoad),
			PerformanceGrade: Grade(pageLoad),
		},
		CriticalIssues: types.CriticalIssues{
			VerySlowRequests:  in.Timing.Buckets[index.BucketVerySlow],
			SlowRequests:      in.Timing.Buckets[index.BucketSlow],
			FailedRequests:    len(failed),
			ExcessiveRequests: len(records) > excessiveRequestCount,
		},
		ResourceBreakdown:          breakdown,
		LargestAssets:              largest,
		SlowestRequests:            slowest,
		FailedRequests:             failed,
		CompressionAnalysis:        in.Compression,
		CachingAnalysis:            in.Caching,
		DNSConnectionAnalysis:      in.Network,
		EnhancedThirdPartyAnalysis: in.ThirdParty,
		CriticalPathAnalysis:       in.CriticalPath,
	}
}

// FormatSeconds renders a millisecond milestone as a seconds string
// ("6.0s", "6.12s") or the not-available marker. Whole values keep one
// decimal so 6000ms reads "6.0s", not "6s".
func FormatSeconds(ms *float64) string {
	if ms == nil {
		return types.NotAvailable
	}
	s := fmt.Sprintf("%.2f", roundSeconds(*ms))
	s = strings.TrimSuffix(s, "0")
	return s + "s"
}

// roundSeconds converts milliseconds to seconds rounded to two decimals.
func roundSeconds(ms float64) float64 {
	return math.Round(ms/1000*100) / 100
}

func truncateURL(url string) string {
	if len(url) > summaryURLMax {
		return url[:summaryURLMax]
	}
	return url
}

func capRecords(records []har.RequestRecord, n int) []har.RequestRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
