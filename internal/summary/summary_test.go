package summary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harlens/internal/analyzer"
	"harlens/internal/har"
	"harlens/internal/index"
	"harlens/pkg/types"
)

func ms(v float64) *float64 { return &v }

func TestGrade(t *testing.T) {
	tests := []struct {
		name     string
		pageLoad *float64
		want     types.Grade
	}{
		{"no timing", nil, types.GradeUnknown},
		{"instant", ms(0), types.GradeGood},
		{"three seconds", ms(3000), types.GradeGood},
		{"just over three", ms(3100), types.GradeFair},
		{"five seconds", ms(5000), types.GradeFair},
		{"just over five", ms(5100), types.GradePoor},
		{"ten seconds", ms(10000), types.GradePoor},
		{"over ten", ms(10100), types.GradeCritical},
		{"painful", ms(45000), types.GradeCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.pageLoad))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, types.NotAvailable, FormatSeconds(nil))
	assert.Equal(t, "6.0s", FormatSeconds(ms(6000)))
	assert.Equal(t, "6.12s", FormatSeconds(ms(6123)))
	assert.Equal(t, "0.5s", FormatSeconds(ms(500)))
	assert.Equal(t, "0.0s", FormatSeconds(ms(0)))
}

const synthHAR = `{"log": {
  "version": "1.2",
  "creator": {"name": "test", "version": "1.0"},
  "pages": [{"id": "p1", "pageTimings": {"onContentLoad": 2500, "onLoad": 6200}}],
  "entries": [
    {"request": {"method": "GET", "url": "https://site.test/"},
     "response": {"status": 200, "content": {"mimeType": "text/html", "size": 4000}},
     "time": 300, "timings": {}},
    {"request": {"method": "GET", "url": "https://site.test/app.js"},
     "response": {"status": 200, "content": {"mimeType": "application/javascript", "size": 120000}},
     "time": 700, "timings": {}},
    {"request": {"method": "GET", "url": "https://tracker.test/px"},
     "response": {"status": 404, "content": {"mimeType": "image/gif", "size": 43}},
     "time": 1400, "timings": {}}
  ]
}}`

func synthInputs(t *testing.T) Inputs {
	t.Helper()
	h, err := har.Parse([]byte(synthHAR))
	require.NoError(t, err)
	records := h.Records()
	idx := index.Build(records)
	return Inputs{
		HAR:         h,
		Index:       idx,
		Timing:      analyzer.AnalyzeTiming(idx, []string{"site.test"}, 10),
		Compression: analyzer.AnalyzeCompression(records),
		Caching:     analyzer.AnalyzeCaching(records),
		Network:     analyzer.AnalyzeNetwork(records),
		ThirdParty:  analyzer.AnalyzeThirdParty(idx),
		CriticalPath: types.CriticalPathAnalysis{
			BlockingResources: []types.BlockingResource{},
			AnalysisAvailable: false,
			Reason:            "No HTML document found in HAR file",
		},
	}
}

func TestSynthesize(t *testing.T) {
	s := Synthesize(synthInputs(t))

	ps := s.PerformanceSummary
	assert.Equal(t, 3, ps.TotalRequests)
	assert.Equal(t, "2.5s", ps.DOMReadyTime)
	assert.Equal(t, "6.2s", ps.PageLoadTime)
	assert.Equal(t, types.GradePoor, ps.PerformanceGrade)

	assert.Equal(t, 1, s.CriticalIssues.VerySlowRequests)
	assert.Equal(t, 1, s.CriticalIssues.SlowRequests)
	assert.Equal(t, 1, s.CriticalIssues.FailedRequests)
	assert.False(t, s.CriticalIssues.ExcessiveRequests)

	assert.Equal(t, map[string]int{"document": 1, "script": 1, "image": 1}, s.ResourceBreakdown)

	require.Len(t, s.FailedRequests, 1)
	assert.Equal(t, 404, s.FailedRequests[0].Status)

	require.NotEmpty(t, s.LargestAssets)
	assert.Equal(t, "https://site.test/app.js", s.LargestAssets[0].URL)
	assert.InDelta(t, 117.2, s.LargestAssets[0].SizeKB, 0.05)

	require.NotEmpty(t, s.SlowestRequests)
	assert.Equal(t, 1400, s.SlowestRequests[0].TimeMs)

	// The unavailable critical path result passes through untouched.
	assert.False(t, s.CriticalPathAnalysis.AnalysisAvailable)
	assert.Equal(t, "No HTML document found in HAR file", s.CriticalPathAnalysis.Reason)
}

func TestSynthesize_NoPageTimings(t *testing.T) {
	in := synthInputs(t)
	in.HAR.Log.Pages = nil

	s := Synthesize(in)
	assert.Equal(t, types.NotAvailable, s.PerformanceSummary.DOMReadyTime)
	assert.Equal(t, types.NotAvailable, s.PerformanceSummary.PageLoadTime)
	assert.Equal(t, types.GradeUnknown, s.PerformanceSummary.PerformanceGrade)
}

func TestSynthesize_URLsTruncated(t *testing.T) {
	in := synthInputs(t)
	s := Synthesize(in)
	for _, a := range s.LargestAssets {
		assert.LessOrEqual(t, len(a.URL), 80)
	}
	for _, r := range s.SlowestRequests {
		assert.LessOrEqual(t, len(r.URL), 80)
	}
}

func TestSynthesize_JSONShape(t *testing.T) {
	s := Synthesize(synthInputs(t))
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{
		"performance_summary", "critical_issues", "resource_breakdown",
		"largest_assets", "slowest_requests", "failed_requests",
		"compression_analysis", "caching_analysis", "dns_connection_analysis",
		"enhanced_third_party_analysis", "critical_path_analysis",
	} {
		assert.Contains(t, doc, key)
	}

	// With no valid network samples the averages serialize as "N/A".
	network := doc["dns_connection_analysis"].(map[string]any)
	assert.Equal(t, "N/A", network["avg_dns_time"])
}
