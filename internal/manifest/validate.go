package manifest

import (
	"fmt"
	"regexp"

	"github.com/descry-dev/descry/internal/pep440"
	"github.com/descry-dev/descry/internal/pep508"
)

// cpythonReleases anchors the satisfiability check for
// requires-python: the predicate must admit at least one of these.
var cpythonReleases = func() []pep440.Version {
	var out []pep440.Version
	for minor := 0; minor <= 14; minor++ {
		out = append(out, pep440.MustParse(fmt.Sprintf("3.%d.0", minor)))
	}
	return append(out, pep440.MustParse("2.7.18"))
}()

var projectNamePattern = regexp.MustCompile(`(?i)^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)

// Validate checks the descriptor's schema invariants and returns every
// problem found. A nil return means the descriptor is semantically
// sound. Validation never mutates the descriptor.
func (m *Manifest) Validate() SchemaErrors {
	var errs SchemaErrors
	addf := func(field, format string, args ...any) {
		errs = append(errs, SchemaError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if m.BuildSystem.BuildBackend == "" {
		addf("build-system.build-backend", "build backend is required")
	}
	if len(m.BuildSystem.Requires) == 0 {
		addf("build-system.requires", "at least one build requirement is required")
	}
	for i, spec := range m.BuildSystem.Requires {
		if _, err := pep508.Parse(spec); err != nil {
			addf(fmt.Sprintf("build-system.requires[%d]", i), "%v", err)
		}
	}

	p := m.Project
	if p.Name == "" {
		addf("project.name", "name is required")
	} else if !projectNamePattern.MatchString(p.Name) {
		addf("project.name", "invalid project name %q", p.Name)
	}

	if p.Version == "" {
		addf("project.version", "version is required and must be non-empty")
	} else if _, err := pep440.Parse(p.Version); err != nil {
		addf("project.version", "%v", err)
	}

	if p.RequiresPython != "" {
		set, err := pep440.ParseSpecifierSet(p.RequiresPython)
		switch {
		case err != nil:
			addf("project.requires-python", "%v", err)
		case !set.SatisfiedByAny(cpythonReleases):
			addf("project.requires-python", "predicate %q admits no known runtime release", p.RequiresPython)
		}
	}

	for i, person := range p.Maintainers {
		if person.Name == "" && person.Email == "" {
			addf(fmt.Sprintf("project.maintainers[%d]", i), "maintainer needs a name or an email")
		}
	}

	for i, c := range p.Classifiers {
		if c == "" {
			addf(fmt.Sprintf("project.classifiers[%d]", i), "classifier must be non-empty")
		}
	}

	for i, spec := range p.Dependencies {
		if _, err := pep508.Parse(spec); err != nil {
			addf(fmt.Sprintf("project.dependencies[%d]", i), "%v", err)
		}
	}

	// Group names are unique keys by construction of the TOML table;
	// the specifiers inside each still need checking, in declared order.
	for _, group := range m.Groups() {
		for i, spec := range m.Project.OptionalDependencies[group] {
			if _, err := pep508.Parse(spec); err != nil {
				addf(fmt.Sprintf("project.optional-dependencies.%s[%d]", group, i), "%v", err)
			}
		}
	}

	return errs
}
