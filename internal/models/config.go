package models

import "time"

// Config holds configuration for a descry run.
type Config struct {
	// Paths to search for project descriptors
	Paths []string

	// Extras to resolve alongside the base dependency set
	Extras []string

	// Output settings
	OutputFormat string // "terminal", "json", "sarif"
	OutputFile   string // Optional output file path

	// Behavior settings
	FailOnFinding bool // Exit with code 1 if diagnostics found
	Resolve       bool // Compute the install set even with no extras
	Transitive    bool // Follow index metadata when resolving
	MaxDepth      int  // Depth limit for transitive resolution

	// Rule settings
	DisabledRules []string

	// Cache settings
	CacheTTL time.Duration
	NoCache  bool

	// Index settings
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths:         []string{"."},
		OutputFormat:  "terminal",
		FailOnFinding: true,
		MaxDepth:      3,
		CacheTTL:      24 * time.Hour,
		Timeout:       60 * time.Second,
	}
}
