package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harlens/internal/classify"
	"harlens/internal/har"
	"harlens/internal/index"
)

func timingRecords() []har.RequestRecord {
	return []har.RequestRecord{
		{Index: 0, URL: "https://site.test/", Status: 200, Time: 150, Size: 5000, ResourceType: classify.TypeDocument},
		{Index: 1, URL: "https://site.test/app.js", Status: 200, Time: 650, Size: 90000, ResourceType: classify.TypeScript},
		{Index: 2, URL: "https://tracker.test/px.gif", Status: 200, Time: 1300, Size: 0, ResourceType: classify.TypeImage},
		{Index: 3, URL: "https://tracker.test/beacon", Status: 500, Time: 2100, Size: -1, ResourceType: classify.TypeOther},
		{Index: 4, URL: "https://cdn.test/style.css", Status: 200, Time: 320, Size: 12000, ResourceType: classify.TypeStylesheet},
	}
}

func TestAnalyzeTiming_Buckets(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, []string{"site.test"}, 10)

	assert.Equal(t, 5, report.TotalRequests)
	assert.Equal(t, 1, report.Buckets[index.BucketFast])
	assert.Equal(t, 1, report.Buckets[index.BucketMedium])
	assert.Equal(t, 1, report.Buckets[index.BucketSlow])
	assert.Equal(t, 2, report.Buckets[index.BucketVerySlow])
	assert.Equal(t, 20.0, report.BucketPercent(index.BucketFast))
}

func TestAnalyzeTiming_LargestSkipsZeroAndNegativeSizes(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, nil, 10)

	require.Len(t, report.Largest, 3)
	assert.Equal(t, int64(90000), report.Largest[0].Size)
	assert.Equal(t, int64(12000), report.Largest[1].Size)
	assert.Equal(t, int64(5000), report.Largest[2].Size)
}

func TestAnalyzeTiming_SlowestDescending(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, nil, 2)

	require.Len(t, report.Slowest, 2)
	assert.Equal(t, 2100.0, report.Slowest[0].Time)
	assert.Equal(t, 1300.0, report.Slowest[1].Time)
}

func TestAnalyzeTiming_FailedRequests(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, nil, 10)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 500, report.Failed[0].Status)
}

func TestAnalyzeTiming_TypeStatsSortedByTotalTime(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, nil, 10)

	require.NotEmpty(t, report.TypeStats)
	for i := 1; i < len(report.TypeStats); i++ {
		assert.GreaterOrEqual(t, report.TypeStats[i-1].TotalTime, report.TypeStats[i].TotalTime)
	}
}

func TestAnalyzeTiming_ThirdPartyExcludesFirstParty(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, []string{"site.test"}, 10)

	domains := make([]string, 0, len(report.ThirdParty))
	for _, d := range report.ThirdParty {
		domains = append(domains, d.Domain)
	}
	assert.NotContains(t, domains, "site.test")
	assert.Contains(t, domains, "tracker.test")
	assert.Contains(t, domains, "cdn.test")
}

func TestAnalyzeTiming_ThirdPartyImpactRanking(t *testing.T) {
	idx := index.Build(timingRecords())
	report := AnalyzeTiming(idx, []string{"site.test"}, 10)

	// tracker.test: (1300+2100)*2 = 6800; cdn.test: 320*1 = 320.
	require.Len(t, report.ThirdParty, 2)
	assert.Equal(t, "tracker.test", report.ThirdParty[0].Domain)
	assert.Equal(t, 6800.0, report.ThirdParty[0].Impact)
}

func TestBucketPercent_EmptyIndex(t *testing.T) {
	idx := index.Build(nil)
	report := AnalyzeTiming(idx, nil, 10)
	assert.Zero(t, report.BucketPercent(index.BucketFast))
}
