package pep440

import (
	"fmt"
	"strconv"
	"strings"
)

// Specifier is a single version clause such as ">=3.9" or "==2.1.*".
type Specifier struct {
	Op      string
	Version string // operand as written, possibly with trailing ".*"
}

// SpecifierSet is a comma-joined conjunction of clauses. A version is
// contained iff every clause admits it.
type SpecifierSet struct {
	Specifiers []Specifier
	raw        string
}

var specifierOps = []string{"===", "==", "!=", "~=", ">=", "<=", ">", "<"}

// ParseSpecifierSet parses a comma-separated specifier set. The empty
// string parses to the empty set, which contains every version.
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	set := SpecifierSet{raw: strings.TrimSpace(s)}
	if set.raw == "" {
		return set, nil
	}

	for _, clause := range strings.Split(set.raw, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return SpecifierSet{}, fmt.Errorf("empty clause in specifier set %q", s)
		}

		spec, err := parseSpecifier(clause)
		if err != nil {
			return SpecifierSet{}, err
		}
		set.Specifiers = append(set.Specifiers, spec)
	}
	return set, nil
}

func parseSpecifier(clause string) (Specifier, error) {
	for _, op := range specifierOps {
		if !strings.HasPrefix(clause, op) {
			continue
		}
		operand := strings.TrimSpace(strings.TrimPrefix(clause, op))
		if operand == "" {
			return Specifier{}, fmt.Errorf("specifier %q has no version operand", clause)
		}
		if err := checkOperand(op, operand); err != nil {
			return Specifier{}, err
		}
		return Specifier{Op: op, Version: operand}, nil
	}
	return Specifier{}, fmt.Errorf("specifier %q has no comparison operator", clause)
}

func checkOperand(op, operand string) error {
	// Arbitrary equality compares raw strings; anything goes.
	if op == "===" {
		return nil
	}
	trimmed := strings.TrimSuffix(operand, ".*")
	if trimmed != operand && op != "==" && op != "!=" {
		return fmt.Errorf("wildcard operand %q only valid with == or !=", operand)
	}
	if _, err := Parse(trimmed); err != nil {
		return fmt.Errorf("specifier operand %q: %w", operand, err)
	}
	if op == "~=" && !strings.Contains(trimmed, ".") {
		return fmt.Errorf("compatible-release operand %q needs at least two release segments", operand)
	}
	return nil
}

// String returns the set as originally written.
func (ss SpecifierSet) String() string { return ss.raw }

// Empty reports whether the set has no clauses.
func (ss SpecifierSet) Empty() bool { return len(ss.Specifiers) == 0 }

// Contains reports whether v satisfies every clause in the set.
func (ss SpecifierSet) Contains(v Version) bool {
	for _, spec := range ss.Specifiers {
		if !spec.contains(v) {
			return false
		}
	}
	return true
}

// ContainsString parses s and reports containment; unparsable versions
// are contained by nothing.
func (ss SpecifierSet) ContainsString(s string) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return ss.Contains(v)
}

// SatisfiedByAny reports whether at least one candidate is contained.
func (ss SpecifierSet) SatisfiedByAny(candidates []Version) bool {
	for _, c := range candidates {
		if ss.Contains(c) {
			return true
		}
	}
	return false
}

func (s Specifier) contains(v Version) bool {
	if s.Op == "===" {
		return v.String() == s.Version
	}

	if strings.HasSuffix(s.Version, ".*") {
		match := prefixMatch(v, strings.TrimSuffix(s.Version, ".*"))
		if s.Op == "!=" {
			return !match
		}
		return match
	}

	operand := MustParse(s.Version)
	switch s.Op {
	case "==":
		return v.Compare(operand) == 0
	case "!=":
		return v.Compare(operand) != 0
	case ">=":
		return v.Compare(operand) >= 0
	case "<=":
		return v.Compare(operand) <= 0
	case ">":
		return v.Compare(operand) > 0
	case "<":
		return v.Compare(operand) < 0
	case "~=":
		// ~= X.Y.Z means >= X.Y.Z and == X.Y.*
		if v.Compare(operand) < 0 {
			return false
		}
		prefix := operand.Release[:len(operand.Release)-1]
		parts := make([]string, len(prefix))
		for i, n := range prefix {
			parts[i] = strconv.Itoa(n)
		}
		return prefixMatch(v, strings.Join(parts, "."))
	}
	return false
}

// prefixMatch reports whether v's release tuple starts with the given
// dotted prefix, so 3.9.1 matches "3.9" but 3.19 does not.
func prefixMatch(v Version, prefix string) bool {
	want, err := Parse(prefix)
	if err != nil {
		return false
	}
	if v.Epoch != want.Epoch || len(v.Release) < len(want.Release) {
		return false
	}
	for i, n := range want.Release {
		if v.Release[i] != n {
			return false
		}
	}
	return true
}
