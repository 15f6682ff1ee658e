package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/scanner"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Validate descriptor schema and tool configuration",
	Long: `validate checks each discovered pyproject.toml without touching the
project's sources: TOML syntax, required metadata fields, version and
requires-python predicates, dependency specifiers, and strict decoding
of the recognized tool sections.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	config, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Source-level rules are lint's concern.
	config.DisabledRules = append(config.DisabledRules, "required-imports", "line-length")

	report, err := scanner.New(config).Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	return writeReport(config, report)
}
