// Command harlens analyzes HAR captures: it breaks them into reviewable
// chunks, produces the agent_summary.json performance artifact, queries
// artifacts with JQ, and serves the same analyses over MCP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"harlens/internal/config"
	"harlens/internal/logging"
)

const version = "1.0.0"

var (
	cfgFile  string
	logLevel string
	logFile  string

	cfg    *config.Config
	logger *slog.Logger

	logCleanup = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:     "harlens",
	Short:   "HAR performance analyzer",
	Version: version,
	Long: `harlens analyzes HTTP Archive (HAR) captures of single page loads.

It breaks captures into manageable chunk files, runs timing, compression,
caching, network, third-party, and critical-path analyses, and writes one
agent_summary.json artifact per capture for downstream report generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if logFile != "" {
			cfg.LogFile = logFile
		}
		logger, logCleanup, err = logging.Setup(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logCleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file overlaying the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotating log file (default: stderr)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
