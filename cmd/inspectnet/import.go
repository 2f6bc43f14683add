package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inspectnet/internal/codec"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored settings with a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format := importFormat
		if format == "" {
			f, err := codec.FormatForPath(path)
			if err != nil {
				return err
			}
			format = f
		}

		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := a.svc.Import(cmd.Context(), format, f); err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}

		report := a.svc.Validate()
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d problems)\n", path, report.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: json, yaml (default: from extension)")
}
