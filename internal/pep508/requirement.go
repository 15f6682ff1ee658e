// Package pep508 parses dependency specifiers of the form
// "name[extra1,extra2]>=1.0,<2.0 ; marker". Requirements keep their
// verbatim text alongside the parsed view so descriptor contents can be
// reproduced exactly as written.
package pep508

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/descry-dev/descry/internal/pep440"
)

// Requirement is a parsed PEP 508 dependency specifier.
type Requirement struct {
	Name       string   // distribution name as written
	Extras     []string // extras requested from the dependency
	Constraint string   // version constraint portion, verbatim ("" if none)
	Marker     string   // environment marker after ";", verbatim ("" if none)
	Raw        string   // the whole specifier as written

	Specifiers pep440.SpecifierSet
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// Parse parses a single dependency specifier. URL requirements
// ("name @ https://...") keep the URL opaque in Constraint.
func Parse(spec string) (Requirement, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Requirement{}, fmt.Errorf("empty dependency specifier")
	}

	req := Requirement{Raw: raw}
	rest := raw

	// Environment marker.
	if idx := strings.Index(rest, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(rest[idx+1:])
		rest = strings.TrimSpace(rest[:idx])
	}

	// URL requirement.
	if idx := strings.Index(rest, "@"); idx >= 0 {
		req.Constraint = strings.TrimSpace(rest[idx+1:])
		rest = strings.TrimSpace(rest[:idx])
	}

	// Extras.
	if idx := strings.Index(rest, "["); idx >= 0 {
		end := strings.Index(rest, "]")
		if end < idx {
			return Requirement{}, fmt.Errorf("unterminated extras in %q", spec)
		}
		for _, extra := range strings.Split(rest[idx+1:end], ",") {
			extra = strings.TrimSpace(extra)
			if extra != "" {
				req.Extras = append(req.Extras, extra)
			}
		}
		rest = strings.TrimSpace(rest[:idx] + rest[end+1:])
	}

	// Split name from the version constraint.
	if cut := strings.IndexAny(rest, "<>=!~("); cut >= 0 {
		if req.Constraint != "" {
			return Requirement{}, fmt.Errorf("both URL and version constraint in %q", spec)
		}
		req.Constraint = strings.TrimSpace(strings.Trim(strings.TrimSpace(rest[cut:]), "()"))
		rest = strings.TrimSpace(rest[:cut])

		set, err := pep440.ParseSpecifierSet(req.Constraint)
		if err != nil {
			return Requirement{}, fmt.Errorf("dependency %q: %w", spec, err)
		}
		req.Specifiers = set
	}

	req.Name = rest
	if !namePattern.MatchString(req.Name) {
		return Requirement{}, fmt.Errorf("invalid distribution name in %q", spec)
	}

	return req, nil
}

// CanonicalName normalizes a distribution name per PEP 503: lowercase,
// with runs of "-", "_" and "." collapsed to a single "-". PyPI treats
// names differing only in this normalization as the same project.
func CanonicalName(name string) string {
	return strings.ToLower(regexp.MustCompile(`[-_.]+`).ReplaceAllString(name, "-"))
}

// Key returns the requirement's canonical identity.
func (r Requirement) Key() string {
	return CanonicalName(r.Name)
}

// String returns the specifier as written.
func (r Requirement) String() string {
	return r.Raw
}

// ExtraMarker reports whether the requirement's marker gates it behind
// the named extra, as in `pytest>=8; extra == "ci"`.
func (r Requirement) ExtraMarker() (string, bool) {
	m := extraMarkerPattern.FindStringSubmatch(r.Marker)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var extraMarkerPattern = regexp.MustCompile(`extra\s*==\s*['"]([^'"]+)['"]`)
