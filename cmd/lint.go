package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/scanner"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint projects against their descriptors' tool configuration",
	Long: `lint discovers every pyproject.toml under the given paths, validates
each descriptor, and checks the project's sources against the policies
the descriptor declares: the linter's required imports and the
formatter's line length. Descriptor-level problems (schema errors,
unknown tool options, invalid coverage patterns) are reported
alongside source findings.`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	config, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	report, err := scanner.New(config).Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	return writeReport(config, report)
}
