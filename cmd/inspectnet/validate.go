package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inspectnet/internal/codec"
	"inspectnet/internal/domain"
	"inspectnet/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Report problems with the stored settings or a settings file",
	Long: `Validate prints one diagnostic per line and exits non-zero when any are
found. Without a file argument the stored settings are checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var settings domain.Settings
		if len(args) == 1 {
			s, err := readSettingsFile(args[0])
			if err != nil {
				return err
			}
			settings = s
		} else {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			settings = a.svc.Settings()
		}

		report := validation.Run(settings)
		for _, d := range report.Diagnostics {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		if !report.Valid() {
			return fmt.Errorf("%d problems found", report.Count())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings are valid.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func readSettingsFile(path string) (domain.Settings, error) {
	format, err := codec.FormatForPath(path)
	if err != nil {
		return domain.Settings{}, err
	}
	c, err := codec.Lookup(format)
	if err != nil {
		return domain.Settings{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Settings{}, err
	}
	defer f.Close()

	return c.Parse(f)
}
