// Package project discovers the Gobra packages below a root directory.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/gobra/config"
	"github.com/dhamidi/gobra/parser"
)

// Project is a directory tree of Gobra source files.
type Project struct {
	RootDir  string
	Config   *config.Config
	Packages []*Package
}

// Package is the set of source files in one directory.
type Package struct {
	Name    string
	Dir     string // relative to the project root, "." for the root itself
	Files   []string
	Imports []string // import paths, sorted and deduplicated
	Project *Project
}

// File is a source file whose header has been read.
type File struct {
	Path    string
	Package string
	Imports []string
}

func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads the configuration of rootDir and groups its source files
// into packages.
func LoadFrom(rootDir string) (*Project, error) {
	cfg, err := config.LoadFrom(rootDir)
	if err != nil {
		return nil, err
	}
	return Scan(rootDir, cfg)
}

// Scan groups the source files below rootDir into packages using cfg.
// Files whose header does not parse are assigned to their directory's
// package with an empty package name.
func Scan(rootDir string, cfg *config.Config) (*Project, error) {
	paths, err := SourceFiles(rootDir, cfg)
	if err != nil {
		return nil, err
	}

	proj := &Project{RootDir: rootDir, Config: cfg}
	byDir := make(map[string]*Package)
	for _, path := range paths {
		rel, err := filepath.Rel(rootDir, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)

		pkg := byDir[rel]
		if pkg == nil {
			pkg = &Package{Dir: rel, Project: proj}
			byDir[rel] = pkg
			proj.Packages = append(proj.Packages, pkg)
		}
		pkg.Files = append(pkg.Files, path)

		header, err := ReadHeader(path)
		if err != nil {
			// Non-fatal: the check command reports the syntax error
			continue
		}
		if pkg.Name == "" {
			pkg.Name = header.Package
		}
		pkg.Imports = append(pkg.Imports, header.Imports...)
	}

	for _, pkg := range proj.Packages {
		pkg.Imports = dedupe(pkg.Imports)
	}
	return proj, nil
}

// SourceFiles lists the files below rootDir that carry one of the
// configured extensions and match no exclude pattern. Directories whose
// name starts with a dot are skipped.
func SourceFiles(rootDir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel != "." && cfg.Excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !cfg.HasExtension(path) || cfg.Excluded(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source files in %s: %w", rootDir, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadHeader parses a file and extracts its package name and imports.
func ReadHeader(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := parser.ParseSourceFile(f, parser.WithFile(path)).Finish()
	if err != nil {
		return nil, err
	}
	return headerOf(path, root), nil
}

func headerOf(path string, root *parser.Node) *File {
	file := &File{Path: path}
	if clause := root.FirstChildOfKind(parser.KindPackageClause); clause != nil {
		file.Package = clause.Child(0).TokenLiteral()
	}
	for _, decl := range root.ChildrenOfKind(parser.KindImportDecl) {
		for _, spec := range decl.ChildrenOfKind(parser.KindImportSpec) {
			lit := spec.FirstChildOfKind(parser.KindBasicLit)
			if lit == nil {
				continue
			}
			importPath, err := strconv.Unquote(lit.TokenLiteral())
			if err != nil {
				continue
			}
			file.Imports = append(file.Imports, importPath)
		}
	}
	return file
}

func dedupe(s []string) []string {
	sort.Strings(s)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Package returns the package in the given directory, or nil if not found.
func (p *Project) Package(dir string) *Package {
	dir = filepath.ToSlash(filepath.Clean(dir))
	for _, pkg := range p.Packages {
		if pkg.Dir == dir {
			return pkg
		}
	}
	return nil
}

// Dependencies returns the packages of this project that pkg imports. An
// import path refers to a project package when it ends with that
// package's directory.
func (p *Project) Dependencies(pkg *Package) []*Package {
	var deps []*Package
	for _, imp := range pkg.Imports {
		for _, other := range p.Packages {
			if other == pkg || other.Dir == "." {
				continue
			}
			if imp == other.Dir || strings.HasSuffix(imp, "/"+other.Dir) {
				deps = append(deps, other)
				break
			}
		}
	}
	return deps
}

// PackagesInOrder returns packages sorted in dependency order (dependencies
// first). On an import cycle the discovery order is returned.
func (p *Project) PackagesInOrder() []*Package {
	inDegree := make(map[*Package]int)
	dependents := make(map[*Package][]*Package)
	for _, pkg := range p.Packages {
		deps := p.Dependencies(pkg)
		inDegree[pkg] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], pkg)
		}
	}

	// Kahn's algorithm
	var queue []*Package
	for _, pkg := range p.Packages {
		if inDegree[pkg] == 0 {
			queue = append(queue, pkg)
		}
	}

	var result []*Package
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		result = append(result, pkg)

		for _, d := range dependents[pkg] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(result) != len(p.Packages) {
		return p.Packages
	}
	return result
}
