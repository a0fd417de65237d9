// Package criticalpath approximates the render-blocking resource set of a
// capture from the static HTML alone: it locates the main document among
// the entries, extracts blocking stylesheets and scripts from its head,
// correlates them back to network timing records, and derives a
// critical-path-time estimate with prioritized recommendations.
//
// Every failure mode is data: the analyzer returns an unavailable result
// carrying a diagnostic reason and never lets an error or panic cross the
// package boundary.
package criticalpath

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"harlens/internal/cache"
	"harlens/internal/har"
	"harlens/pkg/types"
)

// Analyzer runs critical-path analysis over captures.
type Analyzer struct {
	parser HeadParser
	bodies *cache.BodyCache
	log    *slog.Logger
}

// New creates an Analyzer. bodies may be nil to disable body caching.
func New(parser HeadParser, bodies *cache.BodyCache, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{parser: parser, bodies: bodies, log: log}
}

// candidate is an entry that may be the main HTML document.
type candidate struct {
	index   int
	url     string
	content string
	isMain  bool
}

// Analyze locates the main document and derives the blocking-resource
// report. capturePath keys the body cache and may be empty.
func (a *Analyzer) Analyze(h *har.HAR, records []har.RequestRecord, capturePath string) (result types.CriticalPathAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("critical path analysis panicked", "panic", r)
			result = unavailable(fmt.Sprintf("critical path analysis failed: %v", r), &types.CriticalPathDebug{
				TotalEntries: len(records),
			})
		}
	}()

	entries := h.Log.Entries
	if len(entries) == 0 {
		return unavailable("No entries found in HAR file", &types.CriticalPathDebug{TotalEntries: 0})
	}

	candidates := a.findCandidates(entries, capturePath)
	if len(candidates) == 0 {
		return unavailable("No HTML document found in HAR file", &types.CriticalPathDebug{
			TotalEntries: len(entries),
			Suggestion:   "Ensure HAR capture includes main HTML document with response body",
			FirstFewURLs: firstURLs(entries, 3),
		})
	}

	best := selectCandidate(candidates)
	if strings.TrimSpace(best.content) == "" {
		return unavailable(
			fmt.Sprintf("HTML document found but content is empty (URL: %s)", best.url),
			&types.CriticalPathDebug{
				TotalEntries: len(entries),
				SelectedURL:  best.url,
				Candidates:   len(candidates),
				Suggestion:   "Ensure HAR capture includes response bodies (check DevTools settings)",
			})
	}

	extracted, err := a.parser.ParseHead(best.content)
	if err != nil {
		return unavailable(fmt.Sprintf("head parsing failed: %v", err), &types.CriticalPathDebug{
			TotalEntries: len(entries),
			SelectedURL:  best.url,
		})
	}

	blocking := correlateAll(extracted, records)
	cssCount, jsCount := 0, 0
	for _, b := range blocking {
		switch ResourceKind(b.Type) {
		case KindStylesheet:
			cssCount++
		case KindScript:
			jsCount++
		}
	}
	pathTime := criticalPathTime(blocking)

	a.log.Debug("critical path analyzed",
		"document", best.url, "blocking", len(blocking),
		"css", cssCount, "js", jsCount, "path_time_ms", pathTime)

	return types.CriticalPathAnalysis{
		BlockingResources:      blocking,
		BlockingResourcesCount: len(blocking),
		CSSBlockingCount:       cssCount,
		JSBlockingCount:        jsCount,
		CriticalPathTimeMs:     pathTime,
		CriticalPathFormatted:  fmt.Sprintf("%.0fms", pathTime),
		HasRenderBlockingCSS:   cssCount > 0,
		HasRenderBlockingJS:    jsCount > 0,
		Recommendations:        recommendations(blocking, cssCount, jsCount),
		AnalysisAvailable:      true,
		SourceDocument: &types.SourceDocument{
			URL:           best.url,
			ContentLength: len(strings.TrimSpace(best.content)),
			Index:         best.index,
		},
	}
}

// findCandidates scans every entry with all detection heuristics: HTML
// MIME type, HTML-ish URL, or HTML markers in the (decoded) body. Only
// successful GET responses qualify.
func (a *Analyzer) findCandidates(entries []har.Entry, capturePath string) []candidate {
	out := make([]candidate, 0)
	for i := range entries {
		e := &entries[i]
		if e.Request.Method != "GET" || e.Response.Status != 200 {
			continue
		}
		url := e.Request.URL
		mime := strings.ToLower(e.Response.Content.MimeType)
		content := a.decodedBody(e, i, capturePath)

		htmlMime := strings.Contains(mime, "text/html") || strings.Contains(mime, "application/xhtml")
		htmlURL := strings.HasSuffix(url, ".html") || strings.HasSuffix(url, ".htm") || strings.HasSuffix(url, "/")
		htmlBody := looksLikeHTML(content)

		if !htmlMime && !htmlURL && !htmlBody {
			continue
		}
		out = append(out, candidate{
			index:   i,
			url:     url,
			content: content,
			isMain:  i == 0 || shortRootPath(url),
		})
	}
	return out
}

// decodedBody returns the entry's body text, base64-decoded when the
// capture says so (UTF-8, decode errors ignored by keeping the raw text).
func (a *Analyzer) decodedBody(e *har.Entry, idx int, capturePath string) string {
	text := e.Response.Content.Text
	if text == "" || e.Response.Content.Encoding != "base64" {
		return text
	}
	if a.bodies != nil && capturePath != "" {
		if body, ok := a.bodies.Get(capturePath, idx); ok {
			return body
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return text
	}
	body := string(decoded)
	if a.bodies != nil && capturePath != "" {
		a.bodies.Put(capturePath, idx, body)
	}
	return body
}

func looksLikeHTML(content string) bool {
	if content == "" {
		return false
	}
	lower := strings.ToLower(content)
	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<head") ||
		strings.Contains(lower, "<!doctype html")
}

// shortRootPath reports whether a URL looks like a site root: it ends in
// a slash and has at most one path segment.
func shortRootPath(url string) bool {
	return strings.HasSuffix(url, "/") && strings.Count(url, "/") <= 4
}

// selectCandidate picks the document to analyze: a main-document candidate
// with content (longest wins), else the candidate with the longest
// content, else the first candidate even without content.
func selectCandidate(candidates []candidate) candidate {
	best := -1
	for i, c := range candidates {
		if !c.isMain || strings.TrimSpace(c.content) == "" {
			continue
		}
		if best < 0 || contentLen(c) > contentLen(candidates[best]) {
			best = i
		}
	}
	if best < 0 {
		for i, c := range candidates {
			if strings.TrimSpace(c.content) == "" {
				continue
			}
			if best < 0 || contentLen(c) > contentLen(candidates[best]) {
				best = i
			}
		}
	}
	if best < 0 {
		best = 0
	}
	return candidates[best]
}

func contentLen(c candidate) int { return len(strings.TrimSpace(c.content)) }

// criticalPathTime is the maximum time among blocking resources actually
// present in the capture: resources load in parallel, so the slowest one
// bounds the path. Unmatched resources contribute nothing.
func criticalPathTime(blocking []types.BlockingResource) float64 {
	var max float64
	for _, b := range blocking {
		if b.FoundInHAR && b.Time > max {
			max = b.Time
		}
	}
	return max
}

func unavailable(reason string, debug *types.CriticalPathDebug) types.CriticalPathAnalysis {
	return types.CriticalPathAnalysis{
		BlockingResources: make([]types.BlockingResource, 0),
		AnalysisAvailable: false,
		Reason:            reason,
		Debug:             debug,
	}
}

func firstURLs(entries []har.Entry, n int) []string {
	urls := make([]string, 0, n)
	for i := 0; i < len(entries) && i < n; i++ {
		url := entries[i].Request.URL
		if len(url) > 100 {
			url = url[:100]
		}
		urls = append(urls, url)
	}
	return urls
}
