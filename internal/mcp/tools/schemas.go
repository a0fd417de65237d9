package tools

import (
	"context"
	"encoding/json"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"harlens/internal/schema"
)

// SchemaInput is the (empty) input for har_schema.
type SchemaInput struct{}

// SchemaOutput is the output of har_schema.
type SchemaOutput struct {
	Schema any `json:"schema"`
}

// ToolSchema returns the JSON Schema of the agent summary artifact.
func ToolSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, SchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, SchemaOutput, error) {
		data, err := schema.GenerateJSON()
		if err != nil {
			return nil, SchemaOutput{}, err
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, SchemaOutput{}, err
		}
		return nil, SchemaOutput{Schema: doc}, nil
	}
}

// ValidateInput is the input for har_validate.
type ValidateInput struct {
	SummaryPath string `json:"summary_path" jsonschema:"required,Path to an agent_summary.json to validate"`
}

// ValidateOutput is the output of har_validate.
type ValidateOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ToolValidate validates an agent summary artifact against the schema.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		if input.SummaryPath == "" {
			return nil, ValidateOutput{}, ErrInvalidInput("summary_path is required")
		}
		data, err := os.ReadFile(input.SummaryPath)
		if err != nil {
			return nil, ValidateOutput{}, WrapLoadError(input.SummaryPath, err)
		}
		result := d.Validator.Validate(data)
		return nil, ValidateOutput{Valid: result.Valid, Errors: result.Errors}, nil
	}
}
