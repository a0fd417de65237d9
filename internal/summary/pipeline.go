package summary

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"harlens/internal/analyzer"
	"harlens/internal/cache"
	"harlens/internal/config"
	"harlens/internal/criticalpath"
	"harlens/internal/har"
	"harlens/internal/index"
	"harlens/pkg/types"
)

// Pipeline runs the full analysis of one capture: load, index, every
// analyzer, critical path, synthesis. It is safe for concurrent use; the
// body cache it shares across runs is thread-safe.
type Pipeline struct {
	cfg      *config.Config
	critical *criticalpath.Analyzer
	log      *slog.Logger
}

// NewPipeline wires a Pipeline from configuration. bodies may be nil to
// disable body caching.
func NewPipeline(cfg *config.Config, bodies *cache.BodyCache, log *slog.Logger) (*Pipeline, error) {
	if log == nil {
		log = slog.Default()
	}
	parser, err := criticalpath.NewParser(cfg.HeadParser, cfg.MaxDocumentBytes)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		critical: criticalpath.New(parser, bodies, log),
		log:      log,
	}, nil
}

// Analyze loads the capture at harPath and produces its summary without
// writing anything.
func (p *Pipeline) Analyze(harPath string) (types.AgentSummary, error) {
	h, err := har.Load(harPath)
	if err != nil {
		return types.AgentSummary{}, err
	}
	return p.AnalyzeParsed(h, harPath), nil
}

// AnalyzeParsed produces the summary of an already-loaded capture.
// capturePath keys the body cache and may be empty.
func (p *Pipeline) AnalyzeParsed(h *har.HAR, capturePath string) types.AgentSummary {
	records := h.Records()
	idx := index.Build(records)

	firstParty := p.cfg.FirstPartyDomains
	if len(firstParty) == 0 {
		firstParty = deriveFirstParty(records)
	}

	timing := analyzer.AnalyzeTiming(idx, firstParty, p.cfg.TopLargest)
	result := Synthesize(Inputs{
		HAR:          h,
		Index:        idx,
		Timing:       timing,
		Compression:  analyzer.AnalyzeCompression(records),
		Caching:      analyzer.AnalyzeCaching(records),
		Network:      analyzer.AnalyzeNetwork(records),
		ThirdParty:   analyzer.AnalyzeThirdParty(idx),
		CriticalPath: p.critical.Analyze(h, records, capturePath),
		TopN:         p.cfg.SummaryTop,
	})

	p.log.Info("capture analyzed",
		"har", capturePath,
		"requests", result.PerformanceSummary.TotalRequests,
		"grade", result.PerformanceSummary.PerformanceGrade,
		"failed", result.CriticalIssues.FailedRequests)
	return result
}

// Run analyzes the capture at harPath and writes agent_summary.json into
// outDir, creating the directory as needed.
func (p *Pipeline) Run(harPath, outDir string) (types.AgentSummary, error) {
	result, err := p.Analyze(harPath)
	if err != nil {
		return types.AgentSummary{}, err
	}
	if err := Write(result, filepath.Join(outDir, FileName)); err != nil {
		return types.AgentSummary{}, err
	}
	return result, nil
}

// Write persists a summary as indented JSON via a temp file and rename, so
// readers never observe a partially written artifact.
func Write(s types.AgentSummary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("summary: creating %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("summary: encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("summary: temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("summary: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("summary: closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("summary: replacing %s: %w", path, err)
	}
	return nil
}

// deriveFirstParty guesses the first-party domain from the first request of
// the capture, which in browser captures is the navigated document.
func deriveFirstParty(records []har.RequestRecord) []string {
	if len(records) == 0 {
		return nil
	}
	if d := records[0].Domain(); d != "unknown" {
		return []string{d}
	}
	return nil
}
