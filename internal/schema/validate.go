package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ValidationResult reports the outcome of validating one document.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates JSON documents against the agent summary schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the generated agent summary schema into a
// validator.
func NewValidator() (*Validator, error) {
	data, err := GenerateJSON()
	if err != nil {
		return nil, err
	}
	return NewValidatorFromJSON(data)
}

// NewValidatorFromJSON compiles an arbitrary JSON Schema document.
func NewValidatorFromJSON(schemaJSON []byte) (*Validator, error) {
	var doc any
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("schema: parsing schema document: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	// AddResource wants a decoded JSON value, not a reader.
	if err := compiler.AddResource("agent_summary.schema.json", doc); err != nil {
		return nil, fmt.Errorf("schema: adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("agent_summary.schema.json")
	if err != nil {
		return nil, fmt.Errorf("schema: compiling: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks a JSON document against the schema.
func (v *Validator) Validate(data []byte) *ValidationResult {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}
	return v.ValidateValue(value)
}

// ValidateValue checks an already-decoded value against the schema.
func (v *Validator) ValidateValue(value any) *ValidationResult {
	err := v.schema.Validate(value)
	if err == nil {
		return &ValidationResult{Valid: true}
	}
	return &ValidationResult{Valid: false, Errors: extractValidationErrors(err)}
}

// printer localizes validation error messages.
var printer = message.NewPrinter(language.English)

func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	errorsByPath := make(map[string][]string)
	collectErrors(validationErr, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors walks the cause tree and keeps leaf errors; $ref plumbing
// messages are noise and dropped.
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], msg)
		}
	}
	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
