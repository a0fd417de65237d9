package chunker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestHAR(t *testing.T, entries int) string {
	t.Helper()
	list := make([]map[string]any, 0, entries)
	for i := 0; i < entries; i++ {
		mime := "application/javascript"
		if i%2 == 0 {
			mime = "image/png"
		}
		list = append(list, map[string]any{
			"startedDateTime": fmt.Sprintf("2026-08-01T10:00:%02dZ", i),
			"request":         map[string]any{"method": "GET", "url": fmt.Sprintf("https://site.test/r%d", i)},
			"response":        map[string]any{"status": 200, "content": map[string]any{"mimeType": mime, "size": 100 * (i + 1)}},
			"time":            float64(10 * (i + 1)),
			"timings":         map[string]any{"wait": 5},
		})
	}
	doc := map[string]any{"log": map[string]any{
		"version": "1.2",
		"creator": map[string]any{"name": "test", "version": "1.0"},
		"pages": []map[string]any{{
			"id":          "page_1",
			"pageTimings": map[string]any{"onContentLoad": 900.0, "onLoad": 1800.0},
		}},
		"entries": list,
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "capture.har")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestBreak_Layout(t *testing.T) {
	harPath := writeTestHAR(t, 7)
	outDir := filepath.Join(t.TempDir(), "chunks")

	c := New(3, nil)
	require.NoError(t, c.Break(harPath, outDir))

	for _, name := range []string{
		IndexFile, HeaderFile, SummaryFile, ReadmeFile,
		ChunkFileName(1), ChunkFileName(2), ChunkFileName(3),
		ResourceFileName("script"), ResourceFileName("image"),
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	// 7 entries at chunk size 3 means exactly 3 chunk files.
	_, err := os.Stat(filepath.Join(outDir, ChunkFileName(4)))
	assert.True(t, os.IsNotExist(err))
}

func TestBreak_SummaryContent(t *testing.T) {
	harPath := writeTestHAR(t, 4)
	outDir := filepath.Join(t.TempDir(), "chunks")
	require.NoError(t, New(10, nil).Break(harPath, outDir))

	data, err := os.ReadFile(filepath.Join(outDir, SummaryFile))
	require.NoError(t, err)

	var doc struct {
		TotalEntries int `json:"totalEntries"`
		Requests     []struct {
			EntryNumber  int    `json:"entryNumber"`
			URL          string `json:"url"`
			ResourceType string `json:"resourceType"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 4, doc.TotalEntries)
	require.Len(t, doc.Requests, 4)
	// Entry numbers are 1-based.
	assert.Equal(t, 1, doc.Requests[0].EntryNumber)
	assert.Equal(t, 4, doc.Requests[3].EntryNumber)
	assert.Equal(t, "image", doc.Requests[0].ResourceType)
	assert.Equal(t, "script", doc.Requests[1].ResourceType)
}

func TestBreak_ChunkFidelity(t *testing.T) {
	harPath := writeTestHAR(t, 2)
	outDir := filepath.Join(t.TempDir(), "chunks")
	require.NoError(t, New(10, nil).Break(harPath, outDir))

	data, err := os.ReadFile(filepath.Join(outDir, ChunkFileName(1)))
	require.NoError(t, err)

	var doc struct {
		ChunkNumber int              `json:"chunkNumber"`
		EntryCount  int              `json:"entryCount"`
		Entries     []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 1, doc.ChunkNumber)
	assert.Equal(t, 2, doc.EntryCount)
	require.Len(t, doc.Entries, 2)
	// Full entry detail survives, startedDateTime included.
	assert.Equal(t, "2026-08-01T10:00:00Z", doc.Entries[0]["startedDateTime"])
}

func TestBreak_RerunsAreByteIdentical(t *testing.T) {
	harPath := writeTestHAR(t, 5)
	outDir := filepath.Join(t.TempDir(), "chunks")
	c := New(2, nil)

	require.NoError(t, c.Break(harPath, outDir))
	first := readAll(t, outDir)

	require.NoError(t, c.Break(harPath, outDir))
	second := readAll(t, outDir)

	assert.Equal(t, first, second)
}

func readAll(t *testing.T, dir string) map[string]string {
	t.Helper()
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		require.NoError(t, err)
		out[f.Name()] = string(data)
	}
	return out
}

func TestBreak_MissingHAR(t *testing.T) {
	err := New(10, nil).Break(filepath.Join(t.TempDir(), "missing.har"), t.TempDir())
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "03_requests_chunk_01.json", ChunkFileName(1))
	assert.Equal(t, "03_requests_chunk_12.json", ChunkFileName(12))
	assert.Equal(t, "04_resource_type_script.json", ResourceFileName("Script"))
}
