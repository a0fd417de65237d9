// Package query provides JQ-based querying over analysis artifacts: the
// agent summary, chunk files, or any JSON document produced by a run.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes JQ expressions against JSON documents.
type Engine struct{}

// NewEngine creates a query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Result carries the values a query produced.
type Result struct {
	Values   []any    `json:"values"`
	Errors   []string `json:"errors,omitempty"` // per-value errors, e.g. type mismatches
	RawCount int      `json:"raw_count"`        // count before deduplication
}

// Query runs a JQ expression against a JSON document. Null outputs are
// skipped; runtime errors are collected per value rather than aborting the
// query.
func (e *Engine) Query(data []byte, expression string, deduplicate bool, maxResults int) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("query: invalid JSON input: %w", err)
	}

	result := &Result{Values: make([]any, 0), Errors: make([]string, 0)}
	seen := make(map[string]bool)
	iter := code.Run(input)

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			result.Errors = append(result.Errors, formatRunError(err))
			continue
		}
		if v == nil {
			continue
		}
		result.RawCount++
		if deduplicate {
			key := valueKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		result.Values = append(result.Values, v)
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}
	}
	return result, nil
}

// QueryFile runs a JQ expression against a JSON file on disk.
func (e *Engine) QueryFile(path, expression string, deduplicate bool, maxResults int) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("query: reading %s: %w", path, err)
	}
	return e.Query(data, expression, deduplicate, maxResults)
}

// ValidateExpression checks a JQ expression without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	parsed, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("query: invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("query: invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("query: compiling jq expression: %w", err)
	}
	return code, nil
}

// formatRunError decorates common gojq runtime errors with a hint. These
// come back as plain errors, so the matching is on the message text; the
// hints are display-only and never drive control flow.
func formatRunError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	msg := err.Error()
	var hint string
	switch {
	case strings.Contains(msg, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(msg, "cannot index") && strings.Contains(msg, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(msg, "object") && strings.Contains(msg, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(msg, "array") && strings.Contains(msg, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}
	return msg + hint
}

// valueKey builds the deduplication key for one output value.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
