package reporter

import (
	"fmt"
	"strings"

	"github.com/descry-dev/descry/internal/lint"
	"github.com/descry-dev/descry/internal/models"
)

// TerminalReporter outputs the run report in a human-readable format.
type TerminalReporter struct{}

// Report generates terminal output for the given run report.
func (r *TerminalReporter) Report(report *models.Report) ([]byte, error) {
	var sb strings.Builder

	errors, warnings := 0, 0
	for _, d := range report.Diagnostics() {
		switch d.Severity {
		case lint.SeverityError:
			errors++
		case lint.SeverityWarning:
			warnings++
		}
	}

	for _, p := range report.Projects {
		title := p.Path
		if p.Name != "" {
			title = fmt.Sprintf("%s (%s %s)", p.Path, p.Name, p.Version)
		}
		sb.WriteString(title + "\n")
		sb.WriteString(strings.Repeat("-", len(title)) + "\n")

		if len(p.Groups) > 0 {
			sb.WriteString(fmt.Sprintf("extras: %s\n", strings.Join(p.Groups, ", ")))
		}

		if len(p.Resolved) > 0 {
			sb.WriteString(fmt.Sprintf("resolved %d requirements:\n", len(p.Resolved)))
			for _, req := range p.Resolved {
				sb.WriteString("  " + req.Raw + "\n")
			}
		}

		if len(p.Diagnostics) == 0 {
			sb.WriteString("no problems found\n\n")
			continue
		}

		for _, d := range p.Diagnostics {
			location := d.File
			if d.Line > 0 {
				location = fmt.Sprintf("%s:%d", d.File, d.Line)
			}
			sb.WriteString(fmt.Sprintf("  %-7s %s  %s  [%s]\n", d.Severity, location, d.Message, d.RuleID))
		}
		sb.WriteString("\n")
	}

	if errors == 0 && warnings == 0 {
		sb.WriteString("All checks passed.\n")
	} else {
		sb.WriteString(fmt.Sprintf("%d error(s), %d warning(s) across %d project(s)\n",
			errors, warnings, len(report.Projects)))
	}

	return []byte(sb.String()), nil
}
