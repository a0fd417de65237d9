// Package analyzer computes the performance metrics of one capture:
// latency buckets, failure and ranking lists, per-type aggregates,
// third-party attribution, compression and cache audits, and the
// DNS/connection profile. All analyzers are pure with respect to process
// state: they read the index and records and return result values.
package analyzer

import (
	"math"
	"sort"
	"strings"

	"harlens/internal/classify"
	"harlens/internal/har"
	"harlens/internal/index"
)

// TimingReport is the output of the timing and issue analysis.
type TimingReport struct {
	TotalRequests int
	Buckets       map[index.Bucket]int
	Failed        []har.RequestRecord
	Largest       []har.RequestRecord // by size desc, ties by capture order
	Slowest       []har.RequestRecord // by time desc, ties by capture order
	TypeStats     []TypeStat          // sorted by total time desc
	ThirdParty    []ThirdPartyDomain  // sorted by impact desc
}

// BucketPercent returns a bucket's share of all requests, 0 when empty.
func (t *TimingReport) BucketPercent(b index.Bucket) float64 {
	if t.TotalRequests == 0 {
		return 0
	}
	return round1(float64(t.Buckets[b]) / float64(t.TotalRequests) * 100)
}

// TypeStat aggregates one resource type.
type TypeStat struct {
	Type      classify.ResourceType
	Count     int
	TotalSize int64
	AvgSizeKB float64
	TotalTime float64
	AvgTime   float64
	MaxTime   float64
}

// ThirdPartyDomain is the basic third-party attribution entry. Impact is
// totalTime*count; it has no real unit and is used only for ranking.
type ThirdPartyDomain struct {
	Domain    string
	Count     int
	TotalTime float64
	AvgTime   float64
	Impact    float64
}

// AnalyzeTiming partitions requests into latency buckets and computes the
// failure, ranking, per-type, and third-party views. firstParty domains
// mark requests as first-party; a request is third-party when its domain
// neither equals nor contains any of them.
func AnalyzeTiming(idx *index.Index, firstParty []string, topN int) *TimingReport {
	records := idx.Records()
	report := &TimingReport{
		TotalRequests: len(records),
		Buckets:       make(map[index.Bucket]int, 4),
	}
	for _, b := range index.Buckets() {
		report.Buckets[b] = int(idx.Bucket(b).GetCardinality())
	}
	report.Failed = idx.Select(idx.Failed())
	report.Largest = topBySize(records, topN)
	report.Slowest = topByTime(records, topN)
	report.TypeStats = typeStats(idx)
	report.ThirdParty = thirdPartyBasic(idx, firstParty)
	return report
}

// topBySize ranks positive-size records by size descending; the stable sort
// keeps capture order on ties.
func topBySize(records []har.RequestRecord, n int) []har.RequestRecord {
	ranked := make([]har.RequestRecord, 0, len(records))
	for _, r := range records {
		if r.Size > 0 {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Size > ranked[j].Size })
	return capRecords(ranked, n)
}

func topByTime(records []har.RequestRecord, n int) []har.RequestRecord {
	ranked := make([]har.RequestRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Time > ranked[j].Time })
	return capRecords(ranked, n)
}

func typeStats(idx *index.Index) []TypeStat {
	stats := make([]TypeStat, 0, len(idx.Types()))
	for _, t := range idx.Types() {
		group := idx.Select(idx.Type(t))
		if len(group) == 0 {
			continue
		}
		s := TypeStat{Type: t, Count: len(group)}
		for _, r := range group {
			s.TotalSize += r.BodySize()
			s.TotalTime += r.Time
			if r.Time > s.MaxTime {
				s.MaxTime = r.Time
			}
		}
		s.AvgSizeKB = round1(float64(s.TotalSize) / float64(s.Count) / 1024)
		s.AvgTime = round1(s.TotalTime / float64(s.Count))
		stats = append(stats, s)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].TotalTime > stats[j].TotalTime })
	return stats
}

func thirdPartyBasic(idx *index.Index, firstParty []string) []ThirdPartyDomain {
	out := make([]ThirdPartyDomain, 0)
	for _, domain := range idx.Domains() {
		if domain == "unknown" || isFirstParty(domain, firstParty) {
			continue
		}
		group := idx.Select(idx.Domain(domain))
		d := ThirdPartyDomain{Domain: domain, Count: len(group)}
		for _, r := range group {
			d.TotalTime += r.Time
		}
		d.AvgTime = round1(d.TotalTime / float64(d.Count))
		d.Impact = d.TotalTime * float64(d.Count)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Impact != out[j].Impact {
			return out[i].Impact > out[j].Impact
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

func isFirstParty(domain string, firstParty []string) bool {
	for _, fp := range firstParty {
		if domain == fp || strings.Contains(domain, fp) {
			return true
		}
	}
	return false
}

func capRecords(records []har.RequestRecord, n int) []har.RequestRecord {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
