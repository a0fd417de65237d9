package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryDoc = `{
  "performance_summary": {"total_requests": 42, "performance_grade": "FAIR"},
  "slowest_requests": [
    {"url": "https://a.test/slow", "time_ms": 2200},
    {"url": "https://b.test/slower", "time_ms": 3100},
    {"url": "https://a.test/slow", "time_ms": 2200}
  ]
}`

func TestEngine_Query_Field(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".performance_summary.performance_grade", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"FAIR"}, result.Values)
	assert.Equal(t, 1, result.RawCount)
}

func TestEngine_Query_ArrayIteration(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".slowest_requests[].url", false, 0)
	require.NoError(t, err)
	assert.Len(t, result.Values, 3)
}

func TestEngine_Query_Deduplicate(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".slowest_requests[].url", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"https://a.test/slow", "https://b.test/slower"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_MaxResults(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".slowest_requests[].time_ms", false, 2)
	require.NoError(t, err)
	assert.Len(t, result.Values, 2)
}

func TestEngine_Query_Select(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc),
		`.slowest_requests[] | select(.time_ms > 3000) | .url`, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"https://b.test/slower"}, result.Values)
}

func TestEngine_Query_MissingPathSkipsNull(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".no_such_field", false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	assert.Zero(t, result.RawCount)
}

func TestEngine_Query_RuntimeErrorCollected(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query([]byte(summaryDoc), ".performance_summary[]", false, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Values)

	result, err = engine.Query([]byte(summaryDoc), ".no_such_field[]", false, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "null")
}

func TestEngine_Query_InvalidExpression(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Query([]byte(summaryDoc), ".[broken", false, 0)
	assert.Error(t, err)
}

func TestEngine_Query_InvalidJSON(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Query([]byte("{nope"), ".", false, 0)
	assert.Error(t, err)
}

func TestEngine_QueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_summary.json")
	require.NoError(t, os.WriteFile(path, []byte(summaryDoc), 0o644))

	engine := NewEngine()
	result, err := engine.QueryFile(path, ".performance_summary.total_requests", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(42)}, result.Values)
}

func TestEngine_QueryFile_Missing(t *testing.T) {
	engine := NewEngine()
	_, err := engine.QueryFile(filepath.Join(t.TempDir(), "absent.json"), ".", false, 0)
	assert.Error(t, err)
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine()
	assert.NoError(t, engine.ValidateExpression(".a.b[] | select(.c)"))
	assert.Error(t, engine.ValidateExpression("|||"))
}
