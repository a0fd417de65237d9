package criticalpath

import (
	"fmt"

	"harlens/pkg/types"
)

// Recommendation thresholds.
const (
	bundleCSSThreshold = 3
	largeResourceBytes = 50000
	slowResourceMs     = 1000
)

// recommendations derives the deterministic optimization advice. The order
// is a priority ranking consumed verbatim by report tooling: bundling,
// async/defer, size, slowness, inlining, then the catch-all.
func recommendations(blocking []types.BlockingResource, cssCount, jsCount int) []string {
	recs := make([]string, 0, 5)

	if cssCount > bundleCSSThreshold {
		recs = append(recs, fmt.Sprintf("Consider bundling %d CSS files into fewer files to reduce critical path", cssCount))
	}
	if jsCount > 0 {
		recs = append(recs, fmt.Sprintf("Add 'async' or 'defer' attributes to %d JavaScript files to prevent render blocking", jsCount))
	}

	large, slow := 0, 0
	for _, b := range blocking {
		if b.Size > largeResourceBytes {
			large++
		}
		if b.Time > slowResourceMs {
			slow++
		}
	}
	if large > 0 {
		recs = append(recs, fmt.Sprintf("Optimize %d large critical resources (>50KB) to improve loading speed", large))
	}
	if slow > 0 {
		recs = append(recs, fmt.Sprintf("Investigate %d slow-loading critical resources (>1s)", slow))
	}
	if cssCount > 0 {
		recs = append(recs, "Consider inlining critical CSS for above-the-fold content")
	}
	if len(recs) == 0 {
		recs = append(recs, "Critical path appears well-optimized")
	}
	return recs
}
