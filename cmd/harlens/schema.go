package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"harlens/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the agent summary JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <summary-file>",
	Short: "Validate an agent summary against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := schema.NewValidator()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result := v.Validate(data)
		if result.Valid {
			fmt.Println("valid")
			return nil
		}
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, msg)
		}
		return fmt.Errorf("%s does not match the agent summary schema", args[0])
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
}
