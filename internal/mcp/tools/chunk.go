package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"harlens/internal/har"
)

// ChunkInput is the input for har_chunk.
type ChunkInput struct {
	HARPath   string `json:"har_path" jsonschema:"required,Path to the HAR file to break into chunks"`
	OutputDir string `json:"output_dir" jsonschema:"required,Directory to write the chunk files into"`
}

// ChunkOutput is the output of har_chunk.
type ChunkOutput struct {
	OutputDir     string `json:"output_dir"`
	TotalEntries  int    `json:"total_entries"`
	ChunksCreated int    `json:"chunks_created"`
}

// ToolChunk breaks a capture into the chunk-directory layout.
func ToolChunk(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ChunkInput) (*sdkmcp.CallToolResult, ChunkOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ChunkInput) (*sdkmcp.CallToolResult, ChunkOutput, error) {
		if input.HARPath == "" {
			return nil, ChunkOutput{}, ErrInvalidInput("har_path is required")
		}
		if input.OutputDir == "" {
			return nil, ChunkOutput{}, ErrInvalidInput("output_dir is required")
		}

		h, err := har.Load(input.HARPath)
		if err != nil {
			return nil, ChunkOutput{}, WrapLoadError(input.HARPath, err)
		}
		if err := d.Chunker.BreakParsed(h, input.HARPath, input.OutputDir); err != nil {
			return nil, ChunkOutput{}, err
		}

		entries := len(h.Log.Entries)
		chunks := (entries + d.Config.ChunkSize - 1) / d.Config.ChunkSize
		return nil, ChunkOutput{
			OutputDir:     input.OutputDir,
			TotalEntries:  entries,
			ChunksCreated: chunks,
		}, nil
	}
}
