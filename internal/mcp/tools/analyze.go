package tools

import (
	"context"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"harlens/internal/har"
	"harlens/internal/summary"
	"harlens/pkg/types"
)

// AnalyzeInput is the input for har_analyze.
type AnalyzeInput struct {
	HARPath   string `json:"har_path" jsonschema:"required,Path to the HAR file to analyze"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"Directory to write agent_summary.json into (omit to skip writing)"`
}

// AnalyzeOutput is the output of har_analyze.
type AnalyzeOutput struct {
	Summary   any    `json:"summary"`
	WrittenTo string `json:"written_to,omitempty"`
}

// ToolAnalyze runs the full analysis of one capture and returns the agent
// summary, optionally persisting it.
func ToolAnalyze(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AnalyzeInput) (*sdkmcp.CallToolResult, AnalyzeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AnalyzeInput) (*sdkmcp.CallToolResult, AnalyzeOutput, error) {
		if input.HARPath == "" {
			return nil, AnalyzeOutput{}, ErrInvalidInput("har_path is required")
		}

		result, err := d.Pipeline.Analyze(input.HARPath)
		if err != nil {
			return nil, AnalyzeOutput{}, WrapLoadError(input.HARPath, err)
		}

		output := AnalyzeOutput{}
		if input.OutputDir != "" {
			path := filepath.Join(input.OutputDir, summary.FileName)
			if err := summary.Write(result, path); err != nil {
				return nil, AnalyzeOutput{}, err
			}
			output.WrittenTo = path
		}

		// The summary carries custom-marshaling fields, so it crosses the
		// tool boundary as a plain any value.
		v, err := types.ToAny(result)
		if err != nil {
			return nil, AnalyzeOutput{}, err
		}
		output.Summary = v
		return nil, output, nil
	}
}

// GradeInput is the input for har_grade.
type GradeInput struct {
	HARPath string `json:"har_path" jsonschema:"required,Path to the HAR file to grade"`
}

// GradeOutput is the output of har_grade.
type GradeOutput struct {
	Grade         string `json:"grade"`
	PageLoadTime  string `json:"page_load_time"`
	DOMReadyTime  string `json:"dom_ready_time"`
	TotalRequests int    `json:"total_requests"`
}

// ToolGrade grades a capture from its page timings without running the full
// analysis.
func ToolGrade(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GradeInput) (*sdkmcp.CallToolResult, GradeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GradeInput) (*sdkmcp.CallToolResult, GradeOutput, error) {
		if input.HARPath == "" {
			return nil, GradeOutput{}, ErrInvalidInput("har_path is required")
		}

		h, err := har.Load(input.HARPath)
		if err != nil {
			return nil, GradeOutput{}, WrapLoadError(input.HARPath, err)
		}

		var domReady, pageLoad *float64
		if page := h.MainPage(); page != nil {
			domReady = page.PageTimings.OnContentLoadMs()
			pageLoad = page.PageTimings.OnLoadMs()
		}
		return nil, GradeOutput{
			Grade:         string(summary.Grade(pageLoad)),
			PageLoadTime:  summary.FormatSeconds(pageLoad),
			DOMReadyTime:  summary.FormatSeconds(domReady),
			TotalRequests: len(h.Log.Entries),
		}, nil
	}
}
