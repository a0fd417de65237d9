package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"harlens/internal/cache"
	"harlens/internal/query"
	"harlens/internal/summary"
)

var (
	queryDedupe     bool
	queryMaxResults int
)

var queryCmd = &cobra.Command{
	Use:   "query <file> <expression>",
	Short: "Run a JQ expression against an artifact or capture",
	Long: `Run a JQ expression against a JSON artifact (agent summary, chunk
file) or a HAR capture. A .har input is analyzed first and the
expression runs against its agent summary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, expression := args[0], args[1]
		engine := query.NewEngine()

		var result *query.Result
		if strings.HasSuffix(strings.ToLower(path), ".har") {
			bodies, err := cache.NewBodyCache(cfg.BodyCacheMaxItems)
			if err != nil {
				return err
			}
			pipeline, err := summary.NewPipeline(cfg, bodies, logger)
			if err != nil {
				return err
			}
			s, err := pipeline.Analyze(path)
			if err != nil {
				return err
			}
			data, err := json.Marshal(s)
			if err != nil {
				return err
			}
			result, err = engine.Query(data, expression, queryDedupe, queryMaxResults)
			if err != nil {
				return err
			}
		} else {
			var err error
			result, err = engine.QueryFile(path, expression, queryDedupe, queryMaxResults)
			if err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryDedupe, "dedupe", false, "remove duplicate values")
	queryCmd.Flags().IntVar(&queryMaxResults, "max-results", 1000, "maximum values to return")
	rootCmd.AddCommand(queryCmd)
}
