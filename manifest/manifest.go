// Package manifest implements spec §6.2: the TOML package manifest read
// before compilation, yielding the dependency tree the driver walks to
// locate `.wlib` files.
//
// Grounded on original_source/wiz's own manifest handling and expressed
// with the TOML/structured-config idiom the rest of the pack reaches for
// (BurntSushi/toml, the same library the teacher's sibling tooling in this
// corpus uses for config files): decode into toml.Primitive per dependency
// entry and disambiguate the two legal shapes (a bare version string, or a
// `{ path = "..." }` table) by trying a struct decode before falling back
// to a string one.
package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/wiz-lang/wizc/errdefs"
)

// Manifest is one package's `wiz.toml`.
type Manifest struct {
	Package      Package
	Dependencies map[string]Dependency
}

type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Dependency is `<name> = "<constraint>"` or `<name> = { path = "<dir>" }`.
// Exactly one of Constraint/Path is set.
type Dependency struct {
	Constraint *VersionConstraint
	Path       string
}

type rawManifest struct {
	Package      Package                    `toml:"package"`
	Dependencies map[string]toml.Primitive `toml:"dependencies"`
}

type pathDependency struct {
	Path string `toml:"path"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.WithIOError(path, err)
	}
	return Parse(path, data)
}

// Parse decodes manifest source already read into memory. path is used only
// for error messages.
func Parse(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errdefs.WithIOError(path, err)
	}
	if raw.Package.Name == "" {
		return nil, errdefs.WithIOError(path, errMissingField("package.name"))
	}
	if raw.Package.Version == "" {
		return nil, errdefs.WithIOError(path, errMissingField("package.version"))
	}

	deps := make(map[string]Dependency, len(raw.Dependencies))
	for name, prim := range raw.Dependencies {
		var asPath pathDependency
		if err := md.PrimitiveDecode(prim, &asPath); err == nil && asPath.Path != "" {
			deps[name] = Dependency{Path: asPath.Path}
			continue
		}

		var asVersion string
		if err := md.PrimitiveDecode(prim, &asVersion); err != nil {
			return nil, errdefs.WithIOError(path, errBadDependency(name))
		}
		constraint, err := ParseConstraint(asVersion)
		if err != nil {
			return nil, errdefs.WithIOError(path, err)
		}
		deps[name] = Dependency{Constraint: constraint}
	}

	return &Manifest{Package: raw.Package, Dependencies: deps}, nil
}

// DependencyNode is one resolved dependency in the tree Resolve builds: a
// name, the `.wlib` file it resolves to, and its own transitive
// dependencies, read from that dependency's own manifest when it has one.
type DependencyNode struct {
	Name     string
	WlibPath string
	Children []DependencyNode
}

// Resolve walks m's [dependencies] table into the dependency tree the
// driver traverses to load `.wlib` files (spec §6.2). baseDir is the
// directory m's manifest file lives in; relative dependency paths are
// resolved against it.
//
// Only path dependencies resolve: this core has no package registry to
// fetch a version-constrained dependency from (see
// VersionConstraint.Satisfies's doc comment), so a bare version constraint
// with no path is reported as an unresolved dependency rather than
// silently skipped.
func Resolve(m *Manifest, baseDir string) ([]DependencyNode, error) {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]DependencyNode, 0, len(names))
	for _, name := range names {
		dep := m.Dependencies[name]
		if dep.Path == "" {
			return nil, errdefs.WithIOError(baseDir, errUnresolvedDependency(name))
		}

		depDir := dep.Path
		if !filepath.IsAbs(depDir) {
			depDir = filepath.Join(baseDir, depDir)
		}
		wlibPath := depDir
		if filepath.Ext(wlibPath) != ".wlib" {
			wlibPath = filepath.Join(depDir, name+".wlib")
		}
		node := DependencyNode{Name: name, WlibPath: wlibPath}

		if childManifest := filepath.Join(depDir, "wiz.toml"); fileExists(childManifest) {
			child, err := Load(childManifest)
			if err != nil {
				return nil, err
			}
			node.Children, err = Resolve(child, depDir)
			if err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// FlattenPaths walks nodes depth-first and returns every WlibPath, in the
// order the driver should load them: dependencies before the packages that
// depend on them.
func FlattenPaths(nodes []DependencyNode) []string {
	var paths []string
	for _, n := range nodes {
		paths = append(paths, FlattenPaths(n.Children)...)
		paths = append(paths, n.WlibPath)
	}
	return paths
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type missingFieldError string

func (e missingFieldError) Error() string { return "manifest is missing required field " + string(e) }
func errMissingField(field string) error  { return missingFieldError(field) }

type badDependencyError string

func (e badDependencyError) Error() string {
	return "dependency " + string(e) + " is neither a version string nor a { path = ... } table"
}
func errBadDependency(name string) error { return badDependencyError(name) }

type unresolvedDependencyError string

func (e unresolvedDependencyError) Error() string {
	return "dependency " + string(e) + " has no { path = ... } and no registry is configured to resolve its version constraint"
}
func errUnresolvedDependency(name string) error { return unresolvedDependencyError(name) }
