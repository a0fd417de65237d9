package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_analyze",
		Description: "Run the full performance analysis of a HAR file: latency buckets, failed requests, compression and caching audits, DNS/connection profile, third-party attribution, and critical path. Returns the agent summary; set output_dir to also write agent_summary.json.",
	}, ToolAnalyze(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_grade",
		Description: "Grade a HAR file's page load performance (CRITICAL/POOR/FAIR/GOOD/UNKNOWN) from its page timings without running the full analysis.",
	}, ToolGrade(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_chunk",
		Description: "Break a HAR file into the chunk-directory layout: index, header, request summary, fixed-size detail chunks, and per-resource-type files.",
	}, ToolChunk(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_query",
		Description: "Run a JQ expression against an analysis artifact. Pass har_path to analyze a capture and query its summary, or json_path to query an existing agent_summary.json or chunk file.",
	}, ToolQuery(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_schema",
		Description: "Return the JSON Schema of the agent summary artifact.",
	}, ToolSchema(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "har_validate",
		Description: "Validate an agent_summary.json file against the artifact schema.",
	}, ToolValidate(d))
}
