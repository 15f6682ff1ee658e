package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/manifest"
	"github.com/descry-dev/descry/internal/sanitize"
)

var showCmd = &cobra.Command{
	Use:   "show <pyproject.toml>",
	Short: "Show a parsed descriptor as JSON",
	Long: `show parses a single descriptor and prints its full parsed form,
including the raw tool tables, as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	cleaned, err := sanitize.Clean(map[string]any{
		"path":         m.Path,
		"build-system": m.BuildSystem,
		"project":      m.Project,
		"tool":         m.Tool,
	})
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}

	output, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(output))
	return nil
}
