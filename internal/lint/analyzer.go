package lint

// Config controls which rules run and at what severity.
type Config struct {
	Disabled   map[string]bool
	Severities map[string]Severity
}

// NewConfig returns an empty configuration: every rule enabled at its
// default severity.
func NewConfig() *Config {
	return &Config{
		Disabled:   make(map[string]bool),
		Severities: make(map[string]Severity),
	}
}

// Disable turns a rule off.
func (c *Config) Disable(id string) { c.Disabled[id] = true }

// IsDisabled reports whether a rule is turned off.
func (c *Config) IsDisabled(id string) bool { return c.Disabled[id] }

// SetSeverity overrides a rule's default severity.
func (c *Config) SetSeverity(id string, s Severity) { c.Severities[id] = s }

func (c *Config) severity(id string, def Severity) Severity {
	if s, ok := c.Severities[id]; ok {
		return s
	}
	return def
}

// Analyzer runs registered rules against a context.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates an analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs every enabled rule and returns the collected
// diagnostics with severity overrides applied.
func (a *Analyzer) Analyze(ctx *Context) []Diagnostic {
	if ctx == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range All() {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}
		for _, d := range rule.Check(ctx) {
			d.Severity = a.config.severity(rule.ID(), d.Severity)
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}
