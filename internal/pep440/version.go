// Package pep440 implements Python version identifiers and version
// specifiers as defined by PEP 440: parsing, normalization, total
// ordering, and specifier-set containment.
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed PEP 440 version identifier.
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
	Local   string

	original string
}

// PreRelease is a pre-release segment (a1, b2, rc3).
type PreRelease struct {
	Phase string // "a", "b", or "rc"
	Num   int
}

// versionPattern matches the normalized forms plus the common spellings
// seen in the wild (alpha/beta/c/preview, -N post releases, v prefix).
var versionPattern = regexp.MustCompile(`(?i)^v?` +
	`(?:(\d+)!)?` + // epoch
	`(\d+(?:\.\d+)*)` + // release
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d*))?` + // pre
	`(?:(?:-(\d+))|(?:[-_.]?(post|rev|r)[-_.]?(\d*)))?` + // post
	`(?:[-_.]?(dev)[-_.]?(\d*))?` + // dev
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`) // local

// Parse parses a version string. Leading/trailing whitespace is
// tolerated; anything else non-conforming is an error.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	m := versionPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	v := Version{original: trimmed}

	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}

	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid release segment in %q", s)
		}
		v.Release = append(v.Release, n)
	}

	if m[3] != "" {
		v.Pre = &PreRelease{Phase: normalizePhase(m[3]), Num: atoiDefault(m[4])}
	}

	if m[5] != "" {
		n := atoiDefault(m[5])
		v.Post = &n
	} else if m[6] != "" {
		n := atoiDefault(m[7])
		v.Post = &n
	}

	if m[8] != "" {
		n := atoiDefault(m[9])
		v.Dev = &n
	}

	if m[10] != "" {
		v.Local = strings.ToLower(strings.NewReplacer("-", ".", "_", ".").Replace(m[10]))
	}

	return v, nil
}

// MustParse is Parse that panics on error, for use with constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func normalizePhase(p string) string {
	switch strings.ToLower(p) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default: // c, rc, pre, preview
		return "rc"
	}
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// String returns the version as originally written.
func (v Version) String() string {
	if v.original != "" {
		return v.original
	}
	return v.Normalized()
}

// Normalized returns the canonical PEP 440 spelling.
func (v Version) Normalized() string {
	var sb strings.Builder
	if v.Epoch > 0 {
		fmt.Fprintf(&sb, "%d!", v.Epoch)
	}
	parts := make([]string, len(v.Release))
	for i, r := range v.Release {
		parts[i] = strconv.Itoa(r)
	}
	sb.WriteString(strings.Join(parts, "."))
	if v.Pre != nil {
		fmt.Fprintf(&sb, "%s%d", v.Pre.Phase, v.Pre.Num)
	}
	if v.Post != nil {
		fmt.Fprintf(&sb, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&sb, ".dev%d", *v.Dev)
	}
	if v.Local != "" {
		fmt.Fprintf(&sb, "+%s", v.Local)
	}
	return sb.String()
}

// IsPreRelease reports whether the version is a pre-release or dev
// release (relevant when deciding specifier containment defaults).
func (v Version) IsPreRelease() bool {
	return v.Pre != nil || v.Dev != nil
}

// Compare returns -1, 0, or 1 ordering v against o per PEP 440.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Epoch, o.Epoch); c != 0 {
		return c
	}
	if c := cmpRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := cmpPre(v, o); c != 0 {
		return c
	}
	if c := cmpOptional(v.Post, o.Post, false); c != 0 {
		return c
	}
	if c := cmpOptional(v.Dev, o.Dev, true); c != 0 {
		return c
	}
	return cmpLocal(v.Local, o.Local)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpRelease compares release tuples with implicit zero padding, so
// 1.0 == 1.0.0.
func cmpRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// cmpPre orders the pre-release slot. A bare dev release (1.0.dev1)
// sorts before any pre-release of the same release; a final release
// sorts after both.
func cmpPre(a, b Version) int {
	rank := func(v Version) (int, int, int) {
		if v.Pre != nil {
			return 1, phaseRank(v.Pre.Phase), v.Pre.Num
		}
		if v.Post == nil && v.Dev != nil {
			return 0, 0, 0
		}
		return 2, 0, 0
	}
	ar1, ar2, ar3 := rank(a)
	br1, br2, br3 := rank(b)
	if c := cmpInt(ar1, br1); c != 0 {
		return c
	}
	if c := cmpInt(ar2, br2); c != 0 {
		return c
	}
	return cmpInt(ar3, br3)
}

func phaseRank(p string) int {
	switch p {
	case "a":
		return 0
	case "b":
		return 1
	default:
		return 2
	}
}

// cmpOptional compares optional numeric segments. For post releases the
// absent value sorts first; for dev releases the absent value sorts
// last (1.0.dev1 < 1.0).
func cmpOptional(a, b *int, absentLast bool) int {
	missing := -1
	if absentLast {
		missing = 1
	}
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return missing
	case b == nil:
		return -missing
	}
	return cmpInt(*a, *b)
}

// cmpLocal: a version without a local segment sorts before the same
// version with one; local segments compare per-part, numeric parts
// before alphanumeric ones.
func cmpLocal(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		switch {
		case aerr == nil && berr == nil:
			if c := cmpInt(an, bn); c != 0 {
				return c
			}
		case aerr == nil:
			return 1
		case berr == nil:
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(as), len(bs))
}
