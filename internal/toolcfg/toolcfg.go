// Package toolcfg decodes the per-tool configuration tables of a
// project descriptor. Each section is opaque to every other tool, and
// decoding is strict: an unrecognized option inside a section fails
// loudly instead of being silently ignored.
package toolcfg

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/descry-dev/descry/internal/manifest"
)

// Black is the formatter's section.
type Black struct {
	LineLength    int      `toml:"line-length"`
	TargetVersion []string `toml:"target-version"`
	Include       string   `toml:"include"`
	Exclude       string   `toml:"exclude"`
}

// DefaultLineLength applies when tool.black is absent or silent.
const DefaultLineLength = 88

// CoverageRun is the coverage collector's section.
type CoverageRun struct {
	Branch bool `toml:"branch"`
}

// CoverageReport is the coverage reporting section.
type CoverageReport struct {
	ExcludeAlso []string `toml:"exclude_also"`
}

// Mypy is the type checker's section.
type Mypy struct {
	IgnoreMissingImports bool `toml:"ignore_missing_imports"`
}

// Ruff is the linter's section.
type Ruff struct {
	Lint RuffLint `toml:"lint"`
}

// RuffLint holds the lint rule selection.
type RuffLint struct {
	Select []string  `toml:"select"`
	Ignore []string  `toml:"ignore"`
	Isort  RuffIsort `toml:"isort"`
}

// RuffIsort holds import-ordering options, notably the statements that
// must open every source file.
type RuffIsort struct {
	RequiredImports []string `toml:"required-imports"`
}

// UnknownKeyError reports options a tool's section declares that the
// tool does not define.
type UnknownKeyError struct {
	Section string
	Keys    []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("tool.%s: unknown option(s): %s", e.Section, strings.Join(e.Keys, ", "))
}

// DecodeBlack decodes tool.black. The second return reports presence.
func DecodeBlack(m *manifest.Manifest) (Black, bool, error) {
	cfg := Black{LineLength: DefaultLineLength}
	ok, err := decodeSection(m, "black", &cfg)
	return cfg, ok, err
}

// DecodeCoverageRun decodes tool.coverage.run.
func DecodeCoverageRun(m *manifest.Manifest) (CoverageRun, bool, error) {
	var cfg CoverageRun
	ok, err := decodeSection(m, "coverage.run", &cfg)
	return cfg, ok, err
}

// DecodeCoverageReport decodes tool.coverage.report.
func DecodeCoverageReport(m *manifest.Manifest) (CoverageReport, bool, error) {
	var cfg CoverageReport
	ok, err := decodeSection(m, "coverage.report", &cfg)
	return cfg, ok, err
}

// DecodeMypy decodes tool.mypy.
func DecodeMypy(m *manifest.Manifest) (Mypy, bool, error) {
	var cfg Mypy
	ok, err := decodeSection(m, "mypy", &cfg)
	return cfg, ok, err
}

// DecodeRuff decodes tool.ruff, including the nested lint and
// lint.isort tables.
func DecodeRuff(m *manifest.Manifest) (Ruff, bool, error) {
	var cfg Ruff
	ok, err := decodeSection(m, "ruff", &cfg)
	return cfg, ok, err
}

// decodeSection re-encodes the raw section and decodes it into the
// typed view, collecting any keys the typed view did not consume.
func decodeSection(m *manifest.Manifest, name string, into any) (bool, error) {
	raw, ok := m.ToolSection(name)
	if !ok {
		return false, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return true, fmt.Errorf("tool.%s: %w", name, err)
	}

	md, err := toml.Decode(buf.String(), into)
	if err != nil {
		return true, fmt.Errorf("tool.%s: %w", name, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return true, &UnknownKeyError{Section: name, Keys: keys}
	}
	return true, nil
}
