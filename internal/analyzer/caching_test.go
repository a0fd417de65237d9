package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harlens/internal/classify"
	"harlens/internal/har"
)

func TestAnalyzeCaching_NoPolicy(t *testing.T) {
	records := []har.RequestRecord{
		{URL: "https://a.test/app.js", Size: 10240, ResourceType: classify.TypeScript},
	}

	analysis := AnalyzeCaching(records)
	require.Len(t, analysis.NoCacheResources, 1)
	assert.Equal(t, "script", analysis.NoCacheResources[0].ResourceType)
	assert.Equal(t, 1, analysis.CacheOptimizationCount)
	assert.Equal(t, 10.0, analysis.TotalPotentialSavingsKB)
}

func TestAnalyzeCaching_ShortMaxAge(t *testing.T) {
	records := []har.RequestRecord{
		withHeaders(har.RequestRecord{URL: "https://a.test/style.css", Size: 2048, ResourceType: classify.TypeStylesheet},
			har.Header{Name: "Cache-Control", Value: "max-age=1800"}),
	}

	analysis := AnalyzeCaching(records)
	require.Len(t, analysis.ShortCacheResources, 1)
	assert.Equal(t, 0.5, analysis.ShortCacheResources[0].MaxAgeHours)
	assert.Zero(t, analysis.WellCachedCount)
	assert.Empty(t, analysis.NoCacheResources)
}

func TestAnalyzeCaching_WellCached(t *testing.T) {
	records := []har.RequestRecord{
		withHeaders(har.RequestRecord{URL: "https://a.test/font.woff2", Size: 40000},
			har.Header{Name: "Cache-Control", Value: "public, max-age=31536000"}),
	}

	analysis := AnalyzeCaching(records)
	assert.Equal(t, 1, analysis.WellCachedCount)
	assert.Empty(t, analysis.NoCacheResources)
	assert.Empty(t, analysis.ShortCacheResources)
	assert.Zero(t, analysis.CacheOptimizationCount)
}

func TestAnalyzeCaching_NoStoreNotCountedAsShort(t *testing.T) {
	records := []har.RequestRecord{
		withHeaders(har.RequestRecord{URL: "https://a.test/api", Size: 1000},
			har.Header{Name: "Cache-Control", Value: "no-store, max-age=0"}),
	}

	analysis := AnalyzeCaching(records)
	assert.Empty(t, analysis.ShortCacheResources)
	assert.Empty(t, analysis.NoCacheResources)
	assert.Zero(t, analysis.WellCachedCount)
}

func TestAnalyzeCaching_ExpiresCountsAsPolicy(t *testing.T) {
	records := []har.RequestRecord{
		withHeaders(har.RequestRecord{URL: "https://a.test/legacy.gif", Size: 5000},
			har.Header{Name: "Expires", Value: "Thu, 01 Jan 2026 00:00:00 GMT"}),
	}

	analysis := AnalyzeCaching(records)
	assert.Empty(t, analysis.NoCacheResources)
}

func TestAnalyzeCaching_ListsCappedAtTen(t *testing.T) {
	records := make([]har.RequestRecord, 0, 15)
	for i := 0; i < 15; i++ {
		records = append(records, har.RequestRecord{
			URL:  fmt.Sprintf("https://a.test/r%d.js", i),
			Size: 2048,
		})
	}

	analysis := AnalyzeCaching(records)
	assert.Len(t, analysis.NoCacheResources, 10)
	// The optimization count and savings reflect all 15, not the capped list.
	assert.Equal(t, 15, analysis.CacheOptimizationCount)
	assert.Equal(t, 30.0, analysis.TotalPotentialSavingsKB)
}
