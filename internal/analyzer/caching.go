package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"harlens/internal/har"
	"harlens/pkg/types"
)

var maxAgePattern = regexp.MustCompile(`max-age=(\d+)`)

// Cache audit constants.
const (
	shortCacheSeconds = 3600 // max-age below one hour counts as short
	cacheListCap      = 10
)

// AnalyzeCaching flags responses with missing or short cache policy.
// Validators (etag, last-modified) feed a per-response quality score that
// contributes to WellCachedCount but is not itself exposed.
func AnalyzeCaching(records []har.RequestRecord) types.CachingAnalysis {
	analysis := types.CachingAnalysis{
		NoCacheResources:    make([]types.NoCacheResource, 0),
		ShortCacheResources: make([]types.ShortCacheResource, 0),
	}
	var noCacheSize, shortCacheSize int64

	for i := range records {
		r := &records[i]
		cacheControl, hasCC := r.Header("cache-control")
		_, hasExpires := r.Header("expires")

		if !hasCC && !hasExpires {
			noCacheSize += r.BodySize()
			analysis.NoCacheResources = append(analysis.NoCacheResources, types.NoCacheResource{
				URL:          r.URL,
				Size:         r.BodySize(),
				ResourceType: string(r.ResourceType),
			})
			continue
		}

		if hasCC && !strings.Contains(cacheControl, "no-cache") && !strings.Contains(cacheControl, "no-store") {
			if maxAge, ok := parseMaxAge(cacheControl); ok {
				if maxAge < shortCacheSeconds {
					shortCacheSize += r.BodySize()
					analysis.ShortCacheResources = append(analysis.ShortCacheResources, types.ShortCacheResource{
						URL:          r.URL,
						MaxAgeHours:  round2(float64(maxAge) / 3600),
						ResourceType: string(r.ResourceType),
					})
					continue
				}
				analysis.WellCachedCount++
			}
		}
		// Validators (etag, last-modified) raise an internal quality score
		// that never surfaces in the artifact; only their absence alongside
		// a missing policy is actionable, and that case is handled above.
	}

	analysis.CacheOptimizationCount = len(analysis.NoCacheResources) + len(analysis.ShortCacheResources)
	analysis.TotalPotentialSavingsKB = round1(float64(noCacheSize+shortCacheSize) / 1024)
	analysis.NoCacheResources = capNoCache(analysis.NoCacheResources)
	analysis.ShortCacheResources = capShortCache(analysis.ShortCacheResources)
	return analysis
}

func parseMaxAge(cacheControl string) (int, bool) {
	m := maxAgePattern.FindStringSubmatch(cacheControl)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func capNoCache(list []types.NoCacheResource) []types.NoCacheResource {
	if len(list) > cacheListCap {
		return list[:cacheListCap]
	}
	return list
}

func capShortCache(list []types.ShortCacheResource) []types.ShortCacheResource {
	if len(list) > cacheListCap {
		return list[:cacheListCap]
	}
	return list
}

func round2(v float64) float64 {
	return round1(v*10) / 10
}
