package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/descry-dev/descry/internal/models"
)

// loadConfig loads run configuration from file and environment.
// Precedence (highest to lowest): flags > env vars > config file >
// defaults; the flag layer is applied by buildConfig.
func loadConfig(cfgFile string) (*models.Config, error) {
	v := viper.New()

	defaults := models.DefaultConfig()
	v.SetDefault("paths", defaults.Paths)
	v.SetDefault("format", defaults.OutputFormat)
	v.SetDefault("fail_on_finding", defaults.FailOnFinding)
	v.SetDefault("timeout_seconds", int(defaults.Timeout/time.Second))
	v.SetDefault("cache_ttl_hours", int(defaults.CacheTTL/time.Hour))
	v.SetDefault("max_depth", defaults.MaxDepth)

	v.SetEnvPrefix("DESCRY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		paths := []string{"descry.yaml", ".descry.yaml"}
		if homeDir, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(homeDir, ".descry", "descry.yaml"))
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				v.SetConfigFile(p)
				if err := v.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("error reading config file %s: %w", p, err)
				}
				break
			}
		}
	}

	return &models.Config{
		Paths:         v.GetStringSlice("paths"),
		Extras:        v.GetStringSlice("extras"),
		OutputFormat:  v.GetString("format"),
		OutputFile:    v.GetString("output"),
		FailOnFinding: v.GetBool("fail_on_finding"),
		Transitive:    v.GetBool("transitive"),
		MaxDepth:      v.GetInt("max_depth"),
		DisabledRules: v.GetStringSlice("disabled_rules"),
		NoCache:       v.GetBool("no_cache"),
		CacheTTL:      time.Duration(v.GetInt("cache_ttl_hours")) * time.Hour,
		Timeout:       time.Duration(v.GetInt("timeout_seconds")) * time.Second,
	}, nil
}

func timeoutSeconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
