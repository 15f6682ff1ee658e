// Package resolver computes install sets from a project descriptor:
// the base dependency set plus any requested optional-dependency
// groups, with duplicate requirements merged by canonical name and no
// constraint ever dropped.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/descry-dev/descry/internal/clients"
	"github.com/descry-dev/descry/internal/manifest"
	"github.com/descry-dev/descry/internal/pep508"
)

// UnknownGroupError reports a request for an extra the descriptor does
// not declare. This is fatal at install time.
type UnknownGroupError struct {
	Group string
	Known []string
}

func (e *UnknownGroupError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown extra %q (descriptor declares no optional dependencies)", e.Group)
	}
	return fmt.Sprintf("unknown extra %q (declared: %s)", e.Group, strings.Join(e.Known, ", "))
}

// Resolve returns the install set for the descriptor with the given
// extras: base dependencies first, then each requested group's
// specifiers in declared order. A requirement appearing more than once
// keeps its first position; later constraints are conjoined onto it so
// nothing is dropped.
func Resolve(m *manifest.Manifest, extras ...string) ([]pep508.Requirement, error) {
	var out []pep508.Requirement
	index := make(map[string]int)

	add := func(field, spec string) error {
		req, err := pep508.Parse(spec)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if i, seen := index[req.Key()]; seen {
			out[i] = merge(out[i], req)
			return nil
		}
		index[req.Key()] = len(out)
		out = append(out, req)
		return nil
	}

	for i, spec := range m.Project.Dependencies {
		if err := add(fmt.Sprintf("project.dependencies[%d]", i), spec); err != nil {
			return nil, err
		}
	}

	for _, extra := range extras {
		specs, ok := m.Project.OptionalDependencies[extra]
		if !ok {
			return nil, &UnknownGroupError{Group: extra, Known: m.Groups()}
		}
		for i, spec := range specs {
			field := fmt.Sprintf("project.optional-dependencies.%s[%d]", extra, i)
			if err := add(field, spec); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// merge conjoins a repeated requirement onto the first occurrence.
// Identical repeats are absorbed; differing constraints are joined
// with "," (a conjunction under the specifier model), and extras are
// unioned.
func merge(have, incoming pep508.Requirement) pep508.Requirement {
	if incoming.Raw == have.Raw {
		return have
	}

	have.Constraint = conjoin(have.Constraint, incoming.Constraint)

	seen := make(map[string]bool, len(have.Extras))
	for _, e := range have.Extras {
		seen[e] = true
	}
	for _, e := range incoming.Extras {
		if !seen[e] {
			have.Extras = append(have.Extras, e)
		}
	}

	have.Raw = have.Name + extrasSuffix(have.Extras) + have.Constraint
	return have
}

// conjoin joins two constraint strings clause-wise, keeping each
// distinct clause once: ">=2.28" onto ">=2.28,<3" is a no-op.
func conjoin(have, incoming string) string {
	clauses := splitClauses(have)
	seen := make(map[string]bool, len(clauses))
	for _, c := range clauses {
		seen[c] = true
	}
	for _, c := range splitClauses(incoming) {
		if !seen[c] {
			seen[c] = true
			clauses = append(clauses, c)
		}
	}
	return strings.Join(clauses, ",")
}

func splitClauses(constraint string) []string {
	var out []string
	for _, c := range strings.Split(constraint, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func extrasSuffix(extras []string) string {
	if len(extras) == 0 {
		return ""
	}
	return "[" + strings.Join(extras, ",") + "]"
}

// Expand follows requires_dist metadata from the index to produce the
// transitive closure of an install set, breadth-first, up to maxDepth
// hops. Requirements gated behind an extra marker are skipped unless
// that extra was requested on the parent.
func Expand(ctx context.Context, client *clients.PyPIClient, roots []pep508.Requirement, maxDepth int) ([]pep508.Requirement, error) {
	if maxDepth <= 0 {
		maxDepth = 3
	}

	out := append([]pep508.Requirement(nil), roots...)
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		seen[r.Key()] = true
	}

	frontier := roots
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []pep508.Requirement

		for _, parent := range frontier {
			meta, err := client.FetchProject(ctx, parent.Name)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", parent.Name, err)
			}

			wanted := make(map[string]bool, len(parent.Extras))
			for _, e := range parent.Extras {
				wanted[e] = true
			}

			for _, dep := range meta.RequiresDist {
				if extra, gated := dep.ExtraMarker(); gated && !wanted[extra] {
					continue
				}
				if seen[dep.Key()] {
					continue
				}
				seen[dep.Key()] = true
				out = append(out, dep)
				next = append(next, dep)
			}
		}
		frontier = next
	}

	sort.SliceStable(out[len(roots):], func(i, j int) bool {
		return out[len(roots)+i].Key() < out[len(roots)+j].Key()
	})
	return out, nil
}
