package criticalpath

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harlens/internal/cache"
	"harlens/internal/har"
)

const testDocument = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="https://site.test/css/main.css">
  <link rel="stylesheet" href="/css/extra.css">
  <script src="https://site.test/js/app.js"></script>
  <script src="/js/tracked.js" defer></script>
</head>
<body>content</body>
</html>`

type entrySpec struct {
	method   string
	url      string
	status   int
	mime     string
	body     string
	encoding string
	time     float64
	size     int64
}

func buildHAR(t *testing.T, specs []entrySpec) *har.HAR {
	t.Helper()
	entries := make([]map[string]any, 0, len(specs))
	for _, s := range specs {
		content := map[string]any{"mimeType": s.mime, "size": s.size}
		if s.body != "" {
			content["text"] = s.body
		}
		if s.encoding != "" {
			content["encoding"] = s.encoding
		}
		entries = append(entries, map[string]any{
			"request":  map[string]any{"method": s.method, "url": s.url},
			"response": map[string]any{"status": s.status, "content": content},
			"time":     s.time,
			"timings":  map[string]any{},
		})
	}
	doc := map[string]any{"log": map[string]any{"version": "1.2", "entries": entries}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	h, err := har.Parse(data)
	require.NoError(t, err)
	return h
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(NewStructuralParser(0), nil, nil)
}

func TestAnalyze_BlockingResources(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/", status: 200, mime: "text/html", body: testDocument, time: 180, size: 2048},
		{method: "GET", url: "https://site.test/css/main.css", status: 200, mime: "text/css", time: 250, size: 8192},
		{method: "GET", url: "https://site.test/css/extra.css", status: 200, mime: "text/css", time: 90, size: 1024},
		{method: "GET", url: "https://site.test/js/app.js", status: 200, mime: "application/javascript", time: 400, size: 30000},
	})

	result := newTestAnalyzer(t).Analyze(h, h.Records(), "")
	require.True(t, result.AnalysisAvailable)

	// Two stylesheets and the one synchronous script; the deferred script
	// does not block.
	assert.Equal(t, 3, result.BlockingResourcesCount)
	assert.Equal(t, 2, result.CSSBlockingCount)
	assert.Equal(t, 1, result.JSBlockingCount)
	assert.True(t, result.HasRenderBlockingCSS)
	assert.True(t, result.HasRenderBlockingJS)

	// Critical path is bounded by the slowest matched resource.
	assert.Equal(t, 400.0, result.CriticalPathTimeMs)
	assert.Equal(t, "400ms", result.CriticalPathFormatted)

	require.NotNil(t, result.SourceDocument)
	assert.Equal(t, "https://site.test/", result.SourceDocument.URL)
	assert.Equal(t, 0, result.SourceDocument.Index)
}

func TestAnalyze_RelativeURLCorrelation(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/", status: 200, mime: "text/html", body: testDocument, time: 100, size: 2048},
		{method: "GET", url: "https://site.test/css/extra.css", status: 200, mime: "text/css", time: 60, size: 512},
	})

	result := newTestAnalyzer(t).Analyze(h, h.Records(), "")
	require.True(t, result.AnalysisAvailable)

	var extra *struct {
		found bool
		time  float64
	}
	for _, b := range result.BlockingResources {
		if b.URL == "https://site.test/css/extra.css" {
			extra = &struct {
				found bool
				time  float64
			}{b.FoundInHAR, b.Time}
		}
	}
	// The relative href "/css/extra.css" matched the absolute request URL.
	require.NotNil(t, extra)
	assert.True(t, extra.found)
	assert.Equal(t, 60.0, extra.time)
}

func TestAnalyze_UnmatchedResourceStillCounted(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/", status: 200, mime: "text/html", body: testDocument, time: 100, size: 2048},
	})

	result := newTestAnalyzer(t).Analyze(h, h.Records(), "")
	require.True(t, result.AnalysisAvailable)
	assert.Equal(t, 3, result.BlockingResourcesCount)

	for _, b := range result.BlockingResources {
		assert.False(t, b.FoundInHAR, b.URL)
		assert.Zero(t, b.Time, b.URL)
	}
	// Nothing matched, so no timing bounds the path.
	assert.Zero(t, result.CriticalPathTimeMs)
}

func TestAnalyze_NoHTMLDocument(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://api.test/v1/data", status: 200, mime: "application/json", body: `{"ok":true}`, time: 50, size: 11},
		{method: "POST", url: "https://api.test/v1/submit", status: 200, mime: "application/json", time: 60, size: 2},
	})

	result := newTestAnalyzer(t).Analyze(h, h.Records(), "")
	assert.False(t, result.AnalysisAvailable)
	assert.Equal(t, "No HTML document found in HAR file", result.Reason)
	require.NotNil(t, result.Debug)
	assert.Equal(t, 2, result.Debug.TotalEntries)
	assert.Len(t, result.Debug.FirstFewURLs, 2)
}

func TestAnalyze_EmptyDocumentBody(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/index.html", status: 200, mime: "text/html", time: 100, size: 0},
	})

	result := newTestAnalyzer(t).Analyze(h, h.Records(), "")
	assert.False(t, result.AnalysisAvailable)
	assert.Equal(t, "HTML document found but content is empty (URL: https://site.test/index.html)", result.Reason)
}

func TestAnalyze_Base64Body(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(testDocument))
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/", status: 200, mime: "text/html", body: encoded, encoding: "base64", time: 100, size: 2048},
	})

	bodies, err := cache.NewBodyCache(8)
	require.NoError(t, err)
	a := New(NewStructuralParser(0), bodies, nil)

	result := a.Analyze(h, h.Records(), "/tmp/capture.har")
	require.True(t, result.AnalysisAvailable)
	assert.Equal(t, 3, result.BlockingResourcesCount)

	// The decoded body is cached for subsequent runs.
	assert.Equal(t, 1, bodies.Len())
	rerun := a.Analyze(h, h.Records(), "/tmp/capture.har")
	assert.Equal(t, result.BlockingResourcesCount, rerun.BlockingResourcesCount)
}

func TestAnalyze_Deterministic(t *testing.T) {
	h := buildHAR(t, []entrySpec{
		{method: "GET", url: "https://site.test/", status: 200, mime: "text/html", body: testDocument, time: 100, size: 2048},
		{method: "GET", url: "https://site.test/css/main.css", status: 200, mime: "text/css", time: 250, size: 8192},
	})

	a := newTestAnalyzer(t)
	first := a.Analyze(h, h.Records(), "")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Analyze(h, h.Records(), ""), fmt.Sprintf("run %d", i))
	}
}

func TestRecommendations(t *testing.T) {
	none := recommendations(nil, 0, 0)
	assert.Equal(t, []string{"Critical path appears well-optimized"}, none)

	withJS := recommendations(nil, 0, 2)
	require.Len(t, withJS, 1)
	assert.Contains(t, withJS[0], "async")

	withCSS := recommendations(nil, 2, 0)
	require.Len(t, withCSS, 1)
	assert.Contains(t, withCSS[0], "inlining critical CSS")

	manyCSS := recommendations(nil, 5, 0)
	require.Len(t, manyCSS, 2)
	assert.Contains(t, manyCSS[0], "bundling 5 CSS files")
}
