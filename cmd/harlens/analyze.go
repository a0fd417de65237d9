package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"harlens/internal/cache"
	"harlens/internal/summary"
	"harlens/pkg/types"
)

var (
	analyzeOut  string
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <har-file>...",
	Short: "Analyze HAR files and write agent summaries",
	Long: `Run the full performance analysis of one or more HAR files. Each
capture gets an agent_summary.json written to its output directory
(default har_chunks/<name>) and a digest printed to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bodies, err := cache.NewBodyCache(cfg.BodyCacheMaxItems)
		if err != nil {
			return err
		}
		pipeline, err := summary.NewPipeline(cfg, bodies, logger)
		if err != nil {
			return err
		}

		results := make([]types.AgentSummary, len(args))
		var mu sync.Mutex

		g, _ := errgroup.WithContext(cmd.Context())
		for i, harPath := range args {
			g.Go(func() error {
				outDir := outDirFor(harPath, len(args) > 1)
				result, err := pipeline.Run(harPath, outDir)
				if err != nil {
					return fmt.Errorf("%s: %w", harPath, err)
				}
				mu.Lock()
				results[i] = result
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, harPath := range args {
			if analyzeJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results[i]); err != nil {
					return err
				}
				continue
			}
			printDigest(harPath, results[i])
		}
		return nil
	},
}

// outDirFor places each capture's artifacts. With multiple inputs every
// capture gets its own directory even when --out is set.
func outDirFor(harPath string, multiple bool) string {
	if analyzeOut == "" {
		return filepath.Join("har_chunks", baseName(harPath))
	}
	if multiple {
		return filepath.Join(analyzeOut, baseName(harPath))
	}
	return analyzeOut
}

// printDigest writes the human summary of one capture to stdout.
func printDigest(harPath string, s types.AgentSummary) {
	p := message.NewPrinter(language.English)
	ps := s.PerformanceSummary

	p.Printf("== %s ==\n", filepath.Base(harPath))
	p.Printf("Grade: %s\n", ps.PerformanceGrade)
	p.Printf("Requests: %d  DOM ready: %s  Page load: %s\n",
		ps.TotalRequests, ps.DOMReadyTime, ps.PageLoadTime)
	p.Printf("Issues: %d very slow, %d slow, %d failed\n",
		s.CriticalIssues.VerySlowRequests,
		s.CriticalIssues.SlowRequests,
		s.CriticalIssues.FailedRequests)
	p.Printf("Compression: %d opportunities, %.1f KB potential savings\n",
		s.CompressionAnalysis.CompressionOpportunities,
		s.CompressionAnalysis.TotalPotentialSavingsKB)
	p.Printf("Caching: %d resources need attention\n",
		s.CachingAnalysis.CacheOptimizationCount)
	p.Printf("Third party: %d domains, %d high impact\n",
		s.EnhancedThirdPartyAnalysis.TotalThirdPartyDomains,
		len(s.EnhancedThirdPartyAnalysis.HighImpactDomains))
	if cp := s.CriticalPathAnalysis; cp.AnalysisAvailable {
		p.Printf("Critical path: %d blocking resources, %s\n",
			cp.BlockingResourcesCount, cp.CriticalPathFormatted)
	} else {
		p.Printf("Critical path: not available (%s)\n", cp.Reason)
	}
	p.Println()
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output directory for agent_summary.json")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full summary JSON instead of the digest")
	rootCmd.AddCommand(analyzeCmd)
}
