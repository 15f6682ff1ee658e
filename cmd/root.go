package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/log"
	"github.com/descry-dev/descry/internal/models"
	"github.com/descry-dev/descry/internal/reporter"
)

var (
	flagConfig  string
	flagOutput  string
	flagFormat  string
	flagExtras  []string
	flagDisable []string
	flagNoFail  bool
	flagNoCache bool
	flagVerbose bool
	flagTimeout int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "descry",
	Short: "Inspect, validate, and lint Python project descriptors",
	Long: `descry works with pyproject.toml project descriptors: it validates
their schema, resolves optional-dependency groups ("extras"), decodes
the per-tool configuration tables, and lints a project's sources
against the policies its own descriptor declares.

Examples:
  # Validate every descriptor under the current directory
  descry validate

  # Lint a project against its descriptor's tool configuration
  descry lint ./myproject

  # Resolve the install set for the ci extra
  descry resolve --extras ci

  # Output SARIF for code scanning
  descry lint --format sarif --output results.sarif

  # Show a parsed descriptor
  descry show pyproject.toml

  # Convert between serialization formats
  descry convert pyproject.toml pyproject.yaml`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := ""
		if flagVerbose {
			level = "debug"
		}
		log.Configure(log.Config{Level: level})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file path (default: descry.yaml in cwd or home)")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	pf.StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json, sarif")
	pf.StringSliceVar(&flagDisable, "disable", nil, "Rule IDs to disable")
	pf.BoolVar(&flagNoFail, "no-fail", false, "Don't exit with error code if findings are reported")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Disable index metadata caching")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.IntVar(&flagTimeout, "timeout", 60, "HTTP request timeout in seconds")
}

// buildConfig merges the config file, environment, and flags into a
// run configuration. Flags win when set.
func buildConfig(cmd *cobra.Command, paths []string) (*models.Config, error) {
	config, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	if len(paths) > 0 {
		config.Paths = paths
	}
	if cmd.Flags().Changed("format") || config.OutputFormat == "" {
		config.OutputFormat = flagFormat
	}
	if cmd.Flags().Changed("output") {
		config.OutputFile = flagOutput
	}
	if cmd.Flags().Changed("no-fail") {
		config.FailOnFinding = !flagNoFail
	}
	if cmd.Flags().Changed("no-cache") {
		config.NoCache = flagNoCache
	}
	if cmd.Flags().Changed("timeout") {
		config.Timeout = timeoutSeconds(flagTimeout)
	}
	if cmd.Flags().Changed("disable") {
		config.DisabledRules = append(config.DisabledRules, flagDisable...)
	}
	config.Extras = append(config.Extras, flagExtras...)

	return config, nil
}

// writeReport renders the report and applies the exit policy: exit 1
// when findings are present unless --no-fail.
func writeReport(config *models.Config, report *models.Report) error {
	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(report)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", config.OutputFile)
	} else {
		fmt.Print(string(output))
	}

	if report.HasFindings() && config.FailOnFinding {
		os.Exit(1)
	}
	return nil
}
