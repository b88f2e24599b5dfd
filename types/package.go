// Package types implements the TypedType system of spec §3.4: the sum type
// that every resolved HLIR expression and declaration carries, plus the
// package/namespace addressing used to tell a lexical reference apart from
// its fully-qualified resolution.
package types

import "strings"

// Package is an ordered list of namespace segments; an empty list is the
// global package.
type Package struct {
	Names []string
}

func GlobalPackage() Package { return Package{} }

func (p Package) String() string { return strings.Join(p.Names, "::") }

func (p Package) Equal(o Package) bool {
	if len(p.Names) != len(o.Names) {
		return false
	}
	for i := range p.Names {
		if p.Names[i] != o.Names[i] {
			return false
		}
	}
	return true
}

func (p Package) Append(name string) Package {
	out := make([]string, len(p.Names)+1)
	copy(out, p.Names)
	out[len(p.Names)] = name
	return Package{Names: out}
}

// PackageKind distinguishes a lexically-written package reference (Raw) from
// one the resolver has already walked to a declaration (Resolved).
type PackageKind int

const (
	Raw PackageKind = iota
	Resolved
)

// TypedPackage pairs a Package with whether it has been resolved yet.
type TypedPackage struct {
	Kind PackageKind
	Pkg  Package
}

func RawPackage(pkg Package) TypedPackage      { return TypedPackage{Kind: Raw, Pkg: pkg} }
func ResolvedPackage(pkg Package) TypedPackage { return TypedPackage{Kind: Resolved, Pkg: pkg} }

func (t TypedPackage) Equal(o TypedPackage) bool { return t.Kind == o.Kind && t.Pkg.Equal(o.Pkg) }
