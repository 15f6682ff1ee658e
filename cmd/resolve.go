package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/descry-dev/descry/internal/cache"
	"github.com/descry-dev/descry/internal/clients"
	"github.com/descry-dev/descry/internal/log"
	"github.com/descry-dev/descry/internal/resolver"
	"github.com/descry-dev/descry/internal/scanner"
)

var flagTransitive bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [paths...]",
	Short: "Resolve the install set for the requested extras",
	Long: `resolve computes the install set for each discovered descriptor: the
base dependency set plus the specifiers of every requested extra, in
declared order, with duplicates merged by canonical name. Requesting
an extra the descriptor does not declare is an error.

With --transitive, requires_dist metadata from the package index is
followed to expand the closure; responses are cached locally.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringSliceVarP(&flagExtras, "extras", "e", nil, "Optional-dependency groups to include")
	resolveCmd.Flags().BoolVar(&flagTransitive, "transitive", false, "Follow index metadata to expand the install set")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	config, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	config.Resolve = true
	if flagTransitive {
		config.Transitive = true
	}

	report, err := scanner.New(config).Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if config.Transitive {
		var c *cache.Cache
		if !config.NoCache {
			c, err = cache.New("descry", config.CacheTTL)
			if err != nil {
				// Non-fatal: continue without cache
				c = nil
			}
		}
		client := clients.NewPyPIClient(c, config.Timeout)

		for i := range report.Projects {
			p := &report.Projects[i]
			if len(p.Resolved) == 0 {
				continue
			}
			expanded, err := resolver.Expand(cmd.Context(), client, p.Resolved, config.MaxDepth)
			if err != nil {
				logger := log.WithComponent("resolve")
				logger.Warn().Err(err).
					Str("project", p.Name).Msg("transitive expansion failed")
				continue
			}
			p.Resolved = expanded
		}
	}

	return writeReport(config, report)
}
