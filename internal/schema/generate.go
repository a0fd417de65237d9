// Package schema generates the JSON Schema of the agent summary artifact
// and validates produced artifacts against it. The schema is derived from
// the Go types, so contract and implementation cannot drift apart.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"harlens/pkg/types"
)

// Generate reflects the agent summary contract into a JSON Schema.
func Generate() (*jsonschema.Schema, error) {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	s := r.Reflect(&types.AgentSummary{})
	if s == nil {
		return nil, fmt.Errorf("schema: reflection produced no schema")
	}
	s.Title = "Agent Summary"
	s.Description = "Per-capture performance summary artifact (agent_summary.json)"
	return s, nil
}

// GenerateJSON renders the generated schema as indented JSON.
func GenerateJSON() ([]byte, error) {
	s, err := Generate()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encoding: %w", err)
	}
	return append(data, '\n'), nil
}
