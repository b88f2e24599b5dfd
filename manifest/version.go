package manifest

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// VersionConstraint is a dependency version requirement: an optional
// comparison operator (`^`, `~`, `>=`, `<=`, `>`, `<`, `=`; `^` is assumed
// when none is given, matching the compatible-release convention the rest
// of this ecosystem's manifests use) followed by a dotted version number
// with an optional minor and patch component.
type VersionConstraint struct {
	Op    string `parser:"@Op?"`
	Major int    `parser:"@Int"`
	Minor *int   `parser:"(\".\" @Int)?"`
	Patch *int   `parser:"(\".\" @Int)?"`
}

var constraintLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Op", Pattern: `\^|~|>=|<=|>|<|=`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var constraintParser = participle.MustBuild[VersionConstraint](
	participle.Lexer(constraintLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseConstraint parses one dependency version field, e.g. "^1.2.3" or
// ">=2.0".
func ParseConstraint(s string) (*VersionConstraint, error) {
	return constraintParser.ParseString("", s)
}

// Satisfies reports whether major.minor.patch meets c according to c.Op:
// a bare version or "^" requires the same
// major version and a minor.patch no lower than required; "~" additionally
// pins the minor version; ">=", "<=", ">", "<", "=" compare the full tuple
// lexicographically. This core has no package registry to resolve
// transitive version ranges against, so Satisfies only needs to answer
// "does this one candidate match", which is all the driver needs when
// checking a `--library` path against the manifest that named it.
func (c *VersionConstraint) Satisfies(major, minor, patch int) bool {
	reqMinor, reqPatch := 0, 0
	if c.Minor != nil {
		reqMinor = *c.Minor
	}
	if c.Patch != nil {
		reqPatch = *c.Patch
	}

	switch c.Op {
	case ">=":
		return compareTuple(major, minor, patch, c.Major, reqMinor, reqPatch) >= 0
	case "<=":
		return compareTuple(major, minor, patch, c.Major, reqMinor, reqPatch) <= 0
	case ">":
		return compareTuple(major, minor, patch, c.Major, reqMinor, reqPatch) > 0
	case "<":
		return compareTuple(major, minor, patch, c.Major, reqMinor, reqPatch) < 0
	case "=":
		return major == c.Major && minor == reqMinor && patch == reqPatch
	case "~":
		return major == c.Major && minor == reqMinor && patch >= reqPatch
	default: // "" or "^"
		return major == c.Major && compareTuple(0, minor, patch, 0, reqMinor, reqPatch) >= 0
	}
}

func compareTuple(aMaj, aMin, aPatch, bMaj, bMin, bPatch int) int {
	switch {
	case aMaj != bMaj:
		return aMaj - bMaj
	case aMin != bMin:
		return aMin - bMin
	default:
		return aPatch - bPatch
	}
}
