// Package chunker splits one HAR capture into the chunk-directory layout
// consumed by the analyzers and by external collaborators:
//
//	00_index_and_guide.json      breakdown guide and file index
//	01_header_and_metadata.json  HAR version, creator, page timings
//	02_requests_summary.json     flat per-request summary
//	03_requests_chunk_NN.json    full entry detail, fixed-size chunks
//	04_resource_type_<type>.json requests grouped per resource type
//	README.md                    human-readable guide
//
// The chunker is purely structural: no analysis happens here. Every file is
// written to a temp path and renamed, so an interrupted run never leaves
// torn JSON behind, and reruns are byte-identical.
package chunker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"harlens/internal/har"
)

// SummaryFile and friends name the fixed chunk-directory members.
const (
	IndexFile   = "00_index_and_guide.json"
	HeaderFile  = "01_header_and_metadata.json"
	SummaryFile = "02_requests_summary.json"
	ReadmeFile  = "README.md"
)

// Chunker writes chunk directories.
type Chunker struct {
	chunkSize int
	log       *slog.Logger
}

// New creates a Chunker. chunkSize is the number of entries per detail
// chunk file.
func New(chunkSize int, log *slog.Logger) *Chunker {
	if log == nil {
		log = slog.Default()
	}
	return &Chunker{chunkSize: chunkSize, log: log}
}

// headerDoc is the 01 file: capture metadata without entries.
type headerDoc struct {
	Log headerLog `json:"log"`
}

type headerLog struct {
	Version string      `json:"version"`
	Creator har.Creator `json:"creator"`
	Pages   []har.Page  `json:"pages"`
}

// summaryDoc is the 02 file.
type summaryDoc struct {
	TotalEntries int           `json:"totalEntries"`
	Requests     []summaryItem `json:"requests"`
}

type summaryItem struct {
	EntryNumber     int         `json:"entryNumber"`
	Method          string      `json:"method"`
	URL             string      `json:"url"`
	Status          int         `json:"status"`
	StatusText      string      `json:"statusText"`
	MimeType        string      `json:"mimeType"`
	Size            int64       `json:"size"`
	Time            float64     `json:"time"`
	StartedDateTime string      `json:"startedDateTime"`
	ResourceType    string      `json:"resourceType"`
	Timings         har.Timings `json:"timings"`
}

// chunkDoc is one 03 file.
type chunkDoc struct {
	ChunkNumber int         `json:"chunkNumber"`
	EntryCount  int         `json:"entryCount"`
	Entries     []har.Entry `json:"entries"`
}

// resourceDoc is one 04 file.
type resourceDoc struct {
	ResourceType string         `json:"resourceType"`
	Count        int            `json:"count"`
	Requests     []resourceItem `json:"requests"`
}

type resourceItem struct {
	URL             string  `json:"url"`
	Method          string  `json:"method"`
	Status          int     `json:"status"`
	Size            int64   `json:"size"`
	Time            float64 `json:"time"`
	StartedDateTime string  `json:"startedDateTime"`
}

// indexDoc is the 00 file.
type indexDoc struct {
	OriginalFile       string   `json:"originalFile"`
	OriginalSize       int64    `json:"originalSize"`
	TotalEntries       int      `json:"totalEntries"`
	ChunksCreated      int      `json:"chunksCreated"`
	ResourceTypesFound int      `json:"resourceTypesFound"`
	CreatedFiles       []string `json:"createdFiles"`
	Instructions       []string `json:"instructions"`
}

// Break chunks the capture at harPath into outDir, creating the directory
// as needed. Rerunning on the same input overwrites with identical bytes.
func (c *Chunker) Break(harPath, outDir string) error {
	h, err := har.Load(harPath)
	if err != nil {
		return err
	}
	return c.BreakParsed(h, harPath, outDir)
}

// BreakParsed chunks an already-loaded capture.
func (c *Chunker) BreakParsed(h *har.HAR, harPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("chunker: creating %s: %w", outDir, err)
	}
	records := h.Records()

	if err := writeJSON(filepath.Join(outDir, HeaderFile), headerDoc{
		Log: headerLog{Version: h.Log.Version, Creator: h.Log.Creator, Pages: pagesOrEmpty(h)},
	}); err != nil {
		return err
	}

	summary := summaryDoc{TotalEntries: len(records), Requests: make([]summaryItem, len(records))}
	for i, r := range records {
		summary.Requests[i] = summaryItem{
			EntryNumber:     r.Index + 1,
			Method:          r.Method,
			URL:             r.URL,
			Status:          r.Status,
			StatusText:      r.StatusText,
			MimeType:        r.MimeType,
			Size:            r.Size,
			Time:            r.Time,
			StartedDateTime: r.StartedDateTime,
			ResourceType:    string(r.ResourceType),
			Timings:         r.Timings,
		}
	}
	if err := writeJSON(filepath.Join(outDir, SummaryFile), summary); err != nil {
		return err
	}

	chunks := 0
	for start := 0; start < len(h.Log.Entries); start += c.chunkSize {
		end := min(start+c.chunkSize, len(h.Log.Entries))
		chunks++
		doc := chunkDoc{ChunkNumber: chunks, EntryCount: end - start, Entries: h.Log.Entries[start:end]}
		if err := writeJSON(filepath.Join(outDir, ChunkFileName(chunks)), doc); err != nil {
			return err
		}
	}

	types := groupByType(records)
	for _, t := range sortedKeys(types) {
		group := types[t]
		doc := resourceDoc{ResourceType: t, Count: len(group), Requests: group}
		if err := writeJSON(filepath.Join(outDir, ResourceFileName(t)), doc); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(outDir, IndexFile), indexDoc{
		OriginalFile:       filepath.Base(harPath),
		OriginalSize:       fileSize(harPath),
		TotalEntries:       len(records),
		ChunksCreated:      chunks,
		ResourceTypesFound: len(types),
		CreatedFiles: []string{
			"01_header_and_metadata.json - HAR version, creator info, and page timing data",
			fmt.Sprintf("02_requests_summary.json - Overview of all %d network requests", len(records)),
			"03_requests_chunk_XX.json - Detailed request/response data in manageable chunks",
			"04_resource_type_*.json - Requests grouped by resource type",
			"README.md - This explanation file",
		},
		Instructions: []string{
			"Start with 01_header_and_metadata.json to understand the page load context",
			"Use 02_requests_summary.json to get an overview of all network activity",
			"Browse 03_requests_chunk_XX.json files for detailed request/response analysis",
			"Use 04_resource_type_*.json files to analyze specific types of resources",
		},
	}); err != nil {
		return err
	}

	if err := writeAtomic(filepath.Join(outDir, ReadmeFile), []byte(readme(harPath, len(records), chunks, types))); err != nil {
		return err
	}

	c.log.Info("capture chunked",
		"har", harPath, "out", outDir,
		"entries", len(records), "chunks", chunks, "resource_types", len(types))
	return nil
}

// ChunkFileName names the Nth (1-based) detail chunk file.
func ChunkFileName(n int) string {
	return fmt.Sprintf("03_requests_chunk_%02d.json", n)
}

// ResourceFileName names the per-resource-type file.
func ResourceFileName(resourceType string) string {
	return fmt.Sprintf("04_resource_type_%s.json", strings.ToLower(resourceType))
}

func pagesOrEmpty(h *har.HAR) []har.Page {
	if h.Log.Pages == nil {
		return []har.Page{}
	}
	return h.Log.Pages
}

func groupByType(records []har.RequestRecord) map[string][]resourceItem {
	types := make(map[string][]resourceItem)
	for _, r := range records {
		t := string(r.ResourceType)
		types[t] = append(types[t], resourceItem{
			URL:             r.URL,
			Method:          r.Method,
			Status:          r.Status,
			Size:            r.Size,
			Time:            r.Time,
			StartedDateTime: r.StartedDateTime,
		})
	}
	return types
}

func sortedKeys(m map[string][]resourceItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func readme(harPath string, entries, chunks int, types map[string][]resourceItem) string {
	var b strings.Builder
	b.WriteString("# HAR File Breakdown\n\n")
	b.WriteString("This directory contains a breakdown of a HAR (HTTP Archive) file into manageable chunks.\n\n")
	fmt.Fprintf(&b, "## Original File\n- **File**: %s\n- **Total Requests**: %d\n\n", filepath.Base(harPath), entries)
	b.WriteString("## Generated Files\n")
	b.WriteString("- **00_index_and_guide.json** - This breakdown guide and file index\n")
	b.WriteString("- **01_header_and_metadata.json** - HAR version, creator info, and page timing data\n")
	b.WriteString("- **02_requests_summary.json** - Quick overview of all network requests\n")
	fmt.Fprintf(&b, "- **03_requests_chunk_01.json** through **%s** - Full request/response detail\n", ChunkFileName(chunks))
	for _, t := range sortedKeys(types) {
		fmt.Fprintf(&b, "- **%s** - %d %s requests\n", ResourceFileName(t), len(types[t]), t)
	}
	b.WriteString("\n## How to Use\n")
	b.WriteString("1. Open `01_header_and_metadata.json` to understand the page context\n")
	b.WriteString("2. Check `02_requests_summary.json` for a quick summary of all network activity\n")
	b.WriteString("3. Browse `03_requests_chunk_XX.json` files for detailed analysis\n")
	b.WriteString("4. Use `04_resource_type_*.json` files to focus on specific resource types\n")
	return b.String()
}

// writeJSON marshals v with two-space indentation and writes it atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("chunker: encoding %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partially written file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("chunker: temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chunker: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chunker: closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chunker: replacing %s: %w", path, err)
	}
	return nil
}
