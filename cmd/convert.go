package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/sanitize"
	"github.com/descry-dev/descry/internal/serial"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a file between serialization formats",
	Long: `convert reads the input file and writes it back out in the format
implied by the output file's extension. Supported formats: json, yaml,
toml, msgpack (.mpk), each optionally gzip-compressed (".gz" suffix).

Examples:
  descry convert pyproject.toml pyproject.json
  descry convert report.json report.yaml
  descry convert data.json data.mpk.gz`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	var value any
	if err := serial.LoadFile(input, &value); err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	// Normalize so every target codec can encode the tree: YAML and
	// msgpack both produce map keys JSON and TOML refuse.
	cleaned, err := sanitize.Clean(value)
	if err != nil {
		return fmt.Errorf("failed to normalize %s: %w", input, err)
	}

	if err := serial.DumpFile(output, cleaned); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
