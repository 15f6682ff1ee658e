package lint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

func init() {
	Register(&requiredImportsRule{})
	Register(&lineLengthRule{})
	Register(&selectKnownGroupsRule{})
	Register(&coverageExcludeValidRule{})
}

// requiredImportsRule enforces the statements declared under
// [tool.ruff.lint.isort] required-imports: each must appear in a
// source file's leading import block, before the first real statement.
type requiredImportsRule struct{}

func (r *requiredImportsRule) ID() string { return "required-imports" }

func (r *requiredImportsRule) Description() string {
	return "every source file must open with the descriptor's required import statements"
}

func (r *requiredImportsRule) Check(ctx *Context) []Diagnostic {
	if ctx.Ruff == nil || len(ctx.Ruff.Lint.Isort.RequiredImports) == 0 {
		return nil
	}

	var diags []Diagnostic
	for _, file := range ctx.Files {
		header := headerStatements(file.Content)
		if header == nil {
			// Empty files carry no imports and are not flagged.
			continue
		}
		for _, want := range ctx.Ruff.Lint.Isort.RequiredImports {
			if !header[strings.TrimSpace(want)] {
				diags = append(diags, Diagnostic{
					RuleID:   r.ID(),
					Severity: SeverityError,
					File:     file.Path,
					Line:     1,
					Message:  fmt.Sprintf("missing required import %q", want),
				})
			}
		}
	}
	return diags
}

// headerStatements collects the trimmed statements of a file's leading
// block: everything up to the first line that is not a comment, blank
// line, docstring, or import. Returns nil for files with no code.
func headerStatements(content []byte) map[string]bool {
	header := make(map[string]bool)
	sawCode := false
	inDocstring := false
	var docDelim string

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)

		if inDocstring {
			if strings.Contains(trimmed, docDelim) {
				inDocstring = false
			}
			continue
		}

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''"):
			docDelim = trimmed[:3]
			// One-line docstring closes on the same line.
			if len(trimmed) < 6 || !strings.HasSuffix(trimmed, docDelim) {
				inDocstring = true
			}
			continue
		case strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from "):
			header[trimmed] = true
			sawCode = true
			continue
		}

		// First real statement ends the header.
		sawCode = true
		break
	}

	if !sawCode {
		return nil
	}
	return header
}

// lineLengthRule flags lines longer than the formatter's configured
// line length.
type lineLengthRule struct{}

func (r *lineLengthRule) ID() string { return "line-length" }

func (r *lineLengthRule) Description() string {
	return "source lines must not exceed the formatter's line length"
}

func (r *lineLengthRule) Check(ctx *Context) []Diagnostic {
	limit := DefaultLineLength(ctx)

	var diags []Diagnostic
	for _, file := range ctx.Files {
		for i, line := range strings.Split(string(file.Content), "\n") {
			if width := utf8.RuneCountInString(line); width > limit {
				diags = append(diags, Diagnostic{
					RuleID:   r.ID(),
					Severity: SeverityWarning,
					File:     file.Path,
					Line:     i + 1,
					Message:  fmt.Sprintf("line is %d characters, limit is %d", width, limit),
				})
			}
		}
	}
	return diags
}

// DefaultLineLength resolves the effective line length for a context.
func DefaultLineLength(ctx *Context) int {
	if ctx.Black != nil && ctx.Black.LineLength > 0 {
		return ctx.Black.LineLength
	}
	return 88
}

// knownRuleGroups are the linter rule-group codes the descriptor may
// select.
var knownRuleGroups = map[string]bool{
	"A": true, "ANN": true, "ARG": true, "B": true, "BLE": true,
	"C4": true, "C90": true, "D": true, "E": true, "ERA": true,
	"F": true, "FBT": true, "FLY": true, "FURB": true, "I": true,
	"ICN": true, "ISC": true, "N": true, "NPY": true, "PD": true,
	"PERF": true, "PGH": true, "PIE": true, "PL": true, "PLC": true,
	"PLE": true, "PLR": true, "PLW": true, "PT": true, "PTH": true,
	"Q": true, "RET": true, "RSE": true, "RUF": true, "S": true,
	"SIM": true, "SLF": true, "T20": true, "TCH": true, "TID": true,
	"TRY": true, "UP": true, "W": true, "ALL": true,
}

// selectKnownGroupsRule is a descriptor self-check: every code under
// lint.select must name a known rule group.
type selectKnownGroupsRule struct{}

func (r *selectKnownGroupsRule) ID() string { return "select-known-groups" }

func (r *selectKnownGroupsRule) Description() string {
	return "lint.select entries must name known rule groups"
}

func (r *selectKnownGroupsRule) Check(ctx *Context) []Diagnostic {
	if ctx.Ruff == nil {
		return nil
	}

	file := ""
	if ctx.Manifest != nil {
		file = ctx.Manifest.Path
	}

	var diags []Diagnostic
	for _, code := range ctx.Ruff.Lint.Select {
		if knownRuleGroups[code] {
			continue
		}
		diags = append(diags, Diagnostic{
			RuleID:   r.ID(),
			Severity: SeverityWarning,
			File:     file,
			Message:  fmt.Sprintf("unknown rule group %q in lint.select", code),
		})
	}
	return diags
}

// coverageExcludeValidRule is a descriptor self-check: every
// exclude_also pattern must compile as a regular expression, since the
// coverage tool treats them as such.
type coverageExcludeValidRule struct{}

func (r *coverageExcludeValidRule) ID() string { return "coverage-exclude-valid" }

func (r *coverageExcludeValidRule) Description() string {
	return "coverage exclude_also patterns must be valid regular expressions"
}

func (r *coverageExcludeValidRule) Check(ctx *Context) []Diagnostic {
	if ctx.CoverageReport == nil {
		return nil
	}

	file := ""
	if ctx.Manifest != nil {
		file = ctx.Manifest.Path
	}

	var diags []Diagnostic
	for _, pattern := range ctx.CoverageReport.ExcludeAlso {
		if _, err := regexp.Compile(pattern); err != nil {
			diags = append(diags, Diagnostic{
				RuleID:   r.ID(),
				Severity: SeverityError,
				File:     file,
				Message:  fmt.Sprintf("exclude_also pattern %q does not compile: %v", pattern, err),
			})
		}
	}
	return diags
}
