package tools

import (
	"harlens/internal/chunker"
	"harlens/internal/config"
	"harlens/internal/query"
	"harlens/internal/schema"
	"harlens/internal/summary"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Pipeline  *summary.Pipeline
	Chunker   *chunker.Chunker
	Query     *query.Engine
	Validator *schema.Validator
	Config    *config.Config
}
