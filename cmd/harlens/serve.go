package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"harlens/internal/cache"
	"harlens/internal/chunker"
	"harlens/internal/mcp"
	"harlens/internal/mcp/tools"
	"harlens/internal/query"
	"harlens/internal/schema"
	"harlens/internal/summary"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bodies, err := cache.NewBodyCache(cfg.BodyCacheMaxItems)
		if err != nil {
			return err
		}
		pipeline, err := summary.NewPipeline(cfg, bodies, logger)
		if err != nil {
			return err
		}
		validator, err := schema.NewValidator()
		if err != nil {
			return err
		}

		srv, err := mcp.NewServer(&tools.Deps{
			Pipeline:  pipeline,
			Chunker:   chunker.New(cfg.ChunkSize, logger),
			Query:     query.NewEngine(),
			Validator: validator,
			Config:    cfg,
		}, version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("mcp server starting", "transport", "stdio", "version", version)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
