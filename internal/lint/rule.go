// Package lint checks a project tree against the policies its
// descriptor declares: the linter's required imports, the formatter's
// line length, and the descriptor's own tool configuration hygiene.
package lint

import (
	"sort"
	"sync"

	"github.com/descry-dev/descry/internal/manifest"
	"github.com/descry-dev/descry/internal/toolcfg"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single finding from a rule.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	File     string
	Line     int
	Message  string
}

// SourceFile is a source file handed to rules, with its content
// already read.
type SourceFile struct {
	Path    string
	Content []byte
}

// Context carries everything a rule may inspect: the descriptor, its
// decoded tool sections, and the discovered source files.
type Context struct {
	Manifest       *manifest.Manifest
	Black          *toolcfg.Black
	Ruff           *toolcfg.Ruff
	CoverageReport *toolcfg.CoverageReport
	Files          []SourceFile
}

// Rule is one lint check.
type Rule interface {
	// ID is the rule's stable identifier, e.g. "required-imports".
	ID() string

	// Description is a one-line summary for reporters.
	Description() string

	// Check inspects the context and returns zero or more diagnostics.
	Check(ctx *Context) []Diagnostic
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Rule)
)

// Register adds a rule to the global registry. Registering the same ID
// twice replaces the earlier rule.
func Register(r Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[r.ID()] = r
}

// All returns every registered rule, sorted by ID.
func All() []Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()

	rules := make([]Rule, 0, len(registry))
	for _, r := range registry {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// Get looks up a rule by ID.
func Get(id string) (Rule, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[id]
	return r, ok
}
