package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"harlens/internal/chunker"
)

var chunkOut string

var chunkCmd = &cobra.Command{
	Use:   "chunk <har-file>",
	Short: "Break a HAR file into chunk files",
	Long: `Break a HAR file into the chunk-directory layout: breakdown index,
header and metadata, request summary, fixed-size detail chunks, and
per-resource-type files. Defaults to har_chunks/<name> next to the
current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		harPath := args[0]
		outDir := chunkOut
		if outDir == "" {
			outDir = filepath.Join("har_chunks", baseName(harPath))
		}
		c := chunker.New(cfg.ChunkSize, logger)
		if err := c.Break(harPath, outDir); err != nil {
			return err
		}
		fmt.Printf("Chunks written to %s\n", outDir)
		return nil
	},
}

// baseName strips the directory and extension from a capture path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkOut, "out", "o", "", "output directory for chunk files")
	rootCmd.AddCommand(chunkCmd)
}
