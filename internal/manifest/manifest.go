// Package manifest models the pyproject.toml project descriptor: the
// build-system table, PEP 621 project metadata, optional-dependency
// groups, and the per-tool configuration tables. The descriptor is
// static declarative data; it is parsed whole and never mutated by
// consumers.
package manifest

import (
	"bytes"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// FileName is the canonical descriptor file name.
const FileName = "pyproject.toml"

// Manifest is a parsed project descriptor.
type Manifest struct {
	BuildSystem BuildSystem    `toml:"build-system" json:"build-system"`
	Project     Project        `toml:"project" json:"project"`
	Tool        map[string]any `toml:"tool" json:"tool"`

	// Path is the file the descriptor was read from, if any.
	Path string `toml:"-" json:"-"`
}

// BuildSystem names the build backend and its build-time requirements.
// It is consumed once, before any other section.
type BuildSystem struct {
	Requires     []string `toml:"requires" json:"requires"`
	BuildBackend string   `toml:"build-backend" json:"build-backend"`
}

// Person is a name/email pair from the maintainers list.
type Person struct {
	Name  string `toml:"name,omitempty" json:"name,omitempty"`
	Email string `toml:"email,omitempty" json:"email,omitempty"`
}

// Project is the PEP 621 metadata table.
type Project struct {
	Name                 string              `toml:"name" json:"name"`
	Version              string              `toml:"version" json:"version"`
	Description          string              `toml:"description,omitempty" json:"description,omitempty"`
	Readme               string              `toml:"readme,omitempty" json:"readme,omitempty"`
	RequiresPython       string              `toml:"requires-python,omitempty" json:"requires-python,omitempty"`
	Maintainers          []Person            `toml:"maintainers,omitempty" json:"maintainers,omitempty"`
	Classifiers          []string            `toml:"classifiers,omitempty" json:"classifiers,omitempty"`
	Dependencies         []string            `toml:"dependencies" json:"dependencies"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies,omitempty" json:"optional-dependencies,omitempty"`
}

// Parse decodes a descriptor from TOML. A TOML-level failure is a
// *SyntaxError; schema-level problems are left to Validate so a caller
// can report all of them at once.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	return &m, nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		if syn, ok := err.(*SyntaxError); ok {
			syn.Path = path
		}
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Encode serializes the descriptor back to TOML.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Groups returns the declared optional-dependency group names, sorted.
func (m *Manifest) Groups() []string {
	groups := make([]string, 0, len(m.Project.OptionalDependencies))
	for name := range m.Project.OptionalDependencies {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	return groups
}

// ToolSection returns the raw table for the named tool and whether it
// is present. Dotted names descend into sub-tables, so
// "coverage.report" resolves [tool.coverage.report].
func (m *Manifest) ToolSection(name string) (map[string]any, bool) {
	return descend(m.Tool, name)
}

func descend(table map[string]any, name string) (map[string]any, bool) {
	if table == nil {
		return nil, false
	}
	head, rest, dotted := cutDot(name)
	sub, ok := table[head].(map[string]any)
	if !ok {
		return nil, false
	}
	if !dotted {
		return sub, true
	}
	return descend(sub, rest)
}

func cutDot(s string) (head, rest string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
