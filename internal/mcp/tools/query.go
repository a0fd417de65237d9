package tools

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryInput is the input for har_query.
type QueryInput struct {
	HARPath     string `json:"har_path,omitempty" jsonschema:"Analyze this HAR file and query its summary"`
	JSONPath    string `json:"json_path,omitempty" jsonschema:"Query this JSON artifact (agent summary or chunk file) instead"`
	Expression  string `json:"expression" jsonschema:"required,JQ expression to run"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max results to return (default: 1000)"`
}

// QueryOutput is the output of har_query.
type QueryOutput struct {
	Values   []any    `json:"values"`
	Errors   []string `json:"errors,omitempty"`
	RawCount int      `json:"raw_count"`
}

// ToolQuery runs a JQ expression against a summary or JSON artifact.
// Exactly one of har_path and json_path selects the document: har_path runs
// the full analysis first and queries its result.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if input.Expression == "" {
			return nil, QueryOutput{}, ErrInvalidInput("expression is required")
		}
		if (input.HARPath == "") == (input.JSONPath == "") {
			return nil, QueryOutput{}, ErrInvalidInput("exactly one of har_path or json_path is required")
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 1000
		}

		if input.JSONPath != "" {
			result, err := d.Query.QueryFile(input.JSONPath, input.Expression, input.Deduplicate, maxResults)
			if err != nil {
				return nil, QueryOutput{}, err
			}
			return nil, QueryOutput{Values: result.Values, Errors: result.Errors, RawCount: result.RawCount}, nil
		}

		summary, err := d.Pipeline.Analyze(input.HARPath)
		if err != nil {
			return nil, QueryOutput{}, WrapLoadError(input.HARPath, err)
		}
		data, err := json.Marshal(summary)
		if err != nil {
			return nil, QueryOutput{}, err
		}
		result, err := d.Query.Query(data, input.Expression, input.Deduplicate, maxResults)
		if err != nil {
			return nil, QueryOutput{}, err
		}
		return nil, QueryOutput{Values: result.Values, Errors: result.Errors, RawCount: result.RawCount}, nil
	}
}
