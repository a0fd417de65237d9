package analyzer

import (
	"sort"

	"harlens/internal/har"
	"harlens/pkg/types"
)

// Network profiler thresholds. Connect below 10ms is treated as a reused
// connection; this is an approximation derived from the timing shape, not
// a ground-truth signal from the capture.
const (
	connectionReuseMs = 10
	slowDNSMs         = 100
	slowSSLMs         = 500
	domainListCap     = 10
	slowListCap       = 5
)

// AnalyzeNetwork aggregates DNS, SSL, and connect timing per domain.
// Sentinel (-1) phases are excluded everywhere; when no valid samples exist
// the corresponding average is the explicit not-available marker, never 0.
func AnalyzeNetwork(records []har.RequestRecord) types.NetworkAnalysis {
	type domainAcc struct {
		requests  int
		dns       []float64
		ssl       []float64
		connect   []float64
		totalTime float64
	}
	domains := make(map[string]*domainAcc)
	var allDNS, allSSL []float64
	var slowDNS []types.SlowDNS
	var slowSSL []types.SlowSSL
	reused, fresh := 0, 0

	for i := range records {
		r := &records[i]
		domain := r.Domain()
		acc := domains[domain]
		if acc == nil {
			acc = &domainAcc{}
			domains[domain] = acc
		}
		acc.requests++
		acc.totalTime += r.Time

		if har.ValidPhase(r.Timings.Connect) {
			if r.Timings.Connect < connectionReuseMs {
				reused++
			} else {
				fresh++
			}
			acc.connect = append(acc.connect, r.Timings.Connect)
		}
		if har.ValidPhase(r.Timings.DNS) {
			allDNS = append(allDNS, r.Timings.DNS)
			acc.dns = append(acc.dns, r.Timings.DNS)
			if r.Timings.DNS > slowDNSMs {
				slowDNS = append(slowDNS, types.SlowDNS{URL: r.URL, DNSTime: r.Timings.DNS, Domain: domain})
			}
		}
		if har.ValidPhase(r.Timings.SSL) {
			allSSL = append(allSSL, r.Timings.SSL)
			acc.ssl = append(acc.ssl, r.Timings.SSL)
			if r.Timings.SSL > slowSSLMs {
				slowSSL = append(slowSSL, types.SlowSSL{URL: r.URL, SSLTime: r.Timings.SSL, Domain: domain})
			}
		}
	}

	stats := make([]types.DomainPerformance, 0, len(domains))
	for domain, acc := range domains {
		stats = append(stats, types.DomainPerformance{
			Domain:       domain,
			Requests:     acc.requests,
			AvgDNSMs:     meanOrZero(acc.dns),
			AvgSSLMs:     meanOrZero(acc.ssl),
			AvgConnectMs: meanOrZero(acc.connect),
			TotalTimeMs:  round1(acc.totalTime),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalTimeMs != stats[j].TotalTimeMs {
			return stats[i].TotalTimeMs > stats[j].TotalTimeMs
		}
		return stats[i].Domain < stats[j].Domain
	})
	if len(stats) > domainListCap {
		stats = stats[:domainListCap]
	}

	sort.SliceStable(slowDNS, func(i, j int) bool { return slowDNS[i].DNSTime > slowDNS[j].DNSTime })
	if len(slowDNS) > slowListCap {
		slowDNS = slowDNS[:slowListCap]
	}
	sort.SliceStable(slowSSL, func(i, j int) bool { return slowSSL[i].SSLTime > slowSSL[j].SSLTime })
	if len(slowSSL) > slowListCap {
		slowSSL = slowSSL[:slowListCap]
	}

	reusePercent := 0.0
	if total := reused + fresh; total > 0 {
		reusePercent = round1(float64(reused) / float64(total) * 100)
	}

	return types.NetworkAnalysis{
		DomainPerformance:       stats,
		SlowDNSResolutions:      slowDNS,
		SlowSSLHandshakes:       slowSSL,
		AvgDNSTime:              types.AverageOf(allDNS),
		AvgSSLTime:              types.AverageOf(allSSL),
		ConnectionReusePercent:  reusePercent,
		ReusedConnections:       reused,
		NewConnections:          fresh,
		TotalConnectionRequests: reused + fresh,
	}
}

// meanOrZero is for per-domain sub-phase averages, where 0 with zero
// samples matches the artifact contract (the capture-wide averages use the
// explicit not-available marker instead).
func meanOrZero(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return round1(sum / float64(len(samples)))
}
