package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/descry-dev/descry/internal/lint"
	"github.com/descry-dev/descry/internal/pep508"
)

// Report is the outcome of one descry run across one or more project
// descriptors.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Projects    []ProjectReport
}

// ProjectReport covers a single descriptor: its identity, its declared
// groups, the requirements resolved for this run, and every diagnostic
// raised against it or its sources.
type ProjectReport struct {
	Path        string
	Name        string
	Version     string
	Groups      []string
	Resolved    []pep508.Requirement
	Diagnostics []lint.Diagnostic
}

// NewReport creates an empty report stamped with a fresh run ID.
func NewReport() *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
}

// Diagnostics returns every diagnostic across all projects.
func (r *Report) Diagnostics() []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, p := range r.Projects {
		out = append(out, p.Diagnostics...)
	}
	return out
}

// HasFindings reports whether any project raised diagnostics.
func (r *Report) HasFindings() bool {
	for _, p := range r.Projects {
		if len(p.Diagnostics) > 0 {
			return true
		}
	}
	return false
}
