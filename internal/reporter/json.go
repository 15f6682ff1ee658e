package reporter

import (
	"encoding/json"
	"time"

	"github.com/descry-dev/descry/internal/lint"
	"github.com/descry-dev/descry/internal/models"
)

// JSONReporter outputs the run report in JSON format.
type JSONReporter struct{}

// jsonOutput represents the JSON output structure.
type jsonOutput struct {
	RunID       string        `json:"run_id"`
	GeneratedAt string        `json:"generated_at"`
	Summary     jsonSummary   `json:"summary"`
	Projects    []jsonProject `json:"projects"`
}

type jsonSummary struct {
	Projects    int `json:"projects"`
	Diagnostics int `json:"diagnostics"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
}

type jsonProject struct {
	Path        string           `json:"path"`
	Name        string           `json:"name,omitempty"`
	Version     string           `json:"version,omitempty"`
	Groups      []string         `json:"groups,omitempty"`
	Resolved    []jsonDependency `json:"resolved,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonDependency struct {
	Name       string   `json:"name"`
	Constraint string   `json:"constraint,omitempty"`
	Extras     []string `json:"extras,omitempty"`
	Marker     string   `json:"marker,omitempty"`
	Raw        string   `json:"raw"`
}

type jsonDiagnostic struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// Report generates JSON output for the given run report.
func (r *JSONReporter) Report(report *models.Report) ([]byte, error) {
	output := jsonOutput{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Projects:    make([]jsonProject, 0, len(report.Projects)),
	}

	for _, p := range report.Projects {
		jp := jsonProject{
			Path:        p.Path,
			Name:        p.Name,
			Version:     p.Version,
			Groups:      p.Groups,
			Diagnostics: make([]jsonDiagnostic, 0, len(p.Diagnostics)),
		}

		for _, req := range p.Resolved {
			jp.Resolved = append(jp.Resolved, jsonDependency{
				Name:       req.Name,
				Constraint: req.Constraint,
				Extras:     req.Extras,
				Marker:     req.Marker,
				Raw:        req.Raw,
			})
		}

		for _, d := range p.Diagnostics {
			output.Summary.Diagnostics++
			switch d.Severity {
			case lint.SeverityError:
				output.Summary.Errors++
			case lint.SeverityWarning:
				output.Summary.Warnings++
			}
			jp.Diagnostics = append(jp.Diagnostics, jsonDiagnostic{
				RuleID:   d.RuleID,
				Severity: string(d.Severity),
				File:     d.File,
				Line:     d.Line,
				Message:  d.Message,
			})
		}

		output.Projects = append(output.Projects, jp)
	}
	output.Summary.Projects = len(output.Projects)

	return json.MarshalIndent(output, "", "  ")
}
