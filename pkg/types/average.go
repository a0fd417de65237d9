package types

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/invopop/jsonschema"
)

// Average is a millisecond average that distinguishes "no valid samples"
// from a measured 0. It serializes as a JSON number when valid and as the
// string "N/A" otherwise, matching what report consumers branch on.
type Average struct {
	Valid bool
	Ms    float64
}

// AverageOf computes the mean of samples, invalid when samples is empty.
func AverageOf(samples []float64) Average {
	if len(samples) == 0 {
		return Average{}
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return Average{Valid: true, Ms: round1(sum / float64(len(samples)))}
}

// MarshalJSON emits the number, or "N/A" when no samples existed.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal("N/A")
	}
	return json.Marshal(a.Ms)
}

// UnmarshalJSON accepts either a number or the "N/A" marker.
func (a *Average) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "N/A" {
			return fmt.Errorf("average: unexpected string %q", s)
		}
		*a = Average{}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	*a = Average{Valid: true, Ms: ms}
	return nil
}

// JSONSchema describes the number-or-"N/A" wire shape for schema generation.
func (Average) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Enum: []any{"N/A"}},
		},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
