// Package gosrc reads type declarations from a Go module.
//
// Packages map to namespaces (the module-relative directory, dot separated)
// and named types map to classes. Structural markers are written as
// directives in doc comments:
//
//	//arch:Entity
//	//arch:SuppressArchRule(R5)
//	type Invoice struct{ ... }
//
// Directives on methods become member markers of the receiver type, and
// directives in a package doc comment become a namespace declaration.
package gosrc

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/pkg/core"
)

// DirectivePrefix introduces a structural marker in a doc comment.
const DirectivePrefix = "//arch:"

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedModule |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax

// Source is a Go module rooted at a directory containing go.mod.
type Source struct {
	dir  string
	root string
}

// NewSource creates a source for the module in dir. Locations are reported
// relative to root.
func NewSource(dir, root string) *Source {
	return &Source{dir: dir, root: root}
}

// Name implements extract.Source.
func (s *Source) Name() string {
	rel, err := filepath.Rel(s.root, filepath.Join(s.dir, "go.mod"))
	if err != nil {
		return filepath.Join(s.dir, "go.mod")
	}
	return filepath.ToSlash(rel)
}

// Declarations implements extract.Source. Packages with load or type errors
// are still converted as far as possible; their errors become warnings.
func (s *Source) Declarations(ctx context.Context) ([]core.Declaration, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     s.dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	c := &converter{root: s.root, source: s.Name()}
	for _, pkg := range pkgs {
		c.convertPackage(pkg)
	}

	sort.SliceStable(c.decls, func(i, j int) bool {
		return c.decls[i].Location < c.decls[j].Location
	})
	if len(c.warnings) > 0 {
		return c.decls, c.warnings
	}
	return c.decls, nil
}

type converter struct {
	root     string
	source   string
	decls    []core.Declaration
	warnings extract.Warnings
}

// namespaceOf maps a package path to its module-relative dotted namespace.
func namespaceOf(pkg *packages.Package) string {
	path := pkg.PkgPath
	if pkg.Module != nil {
		path = strings.TrimPrefix(strings.TrimPrefix(path, pkg.Module.Path), "/")
	}
	return strings.ReplaceAll(path, "/", ".")
}

func (c *converter) location(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	name := p.Filename
	if rel, err := filepath.Rel(c.root, name); err == nil {
		name = rel
	}
	return fmt.Sprintf("%s:%d", filepath.ToSlash(name), p.Line)
}

func (c *converter) convertPackage(pkg *packages.Package) {
	for _, e := range pkg.Errors {
		c.warnings = append(c.warnings, extract.PartialParseWarning{
			Source:      c.source,
			Declaration: pkg.PkgPath,
			Message:     e.Error(),
		})
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return
	}

	ns := namespaceOf(pkg)
	byName := make(map[string]*core.Declaration)
	var order []string

	for _, file := range pkg.Syntax {
		if markers := directives(file.Doc); len(markers) > 0 {
			c.decls = append(c.decls, core.Declaration{
				Namespace: ns,
				Kind:      core.DeclNamespace,
				Markers:   markers,
				Location:  c.location(pkg.Fset, file.Package),
			})
		}

		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				visibility := core.VisibilityPackage
				if ts.Name.IsExported() {
					visibility = core.VisibilityPublic
				}
				d := &core.Declaration{
					Name:       ts.Name.Name,
					Namespace:  ns,
					Markers:    directives(doc),
					Visibility: string(visibility),
					Location:   c.location(pkg.Fset, ts.Pos()),
				}
				d.References = c.references(pkg, ts, d.FQN(), nil)
				byName[ts.Name.Name] = d
				order = append(order, ts.Name.Name)
			}
		}
	}

	// Methods contribute member markers and references to their receiver.
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			d, ok := byName[receiverName(fd.Recv.List[0].Type)]
			if !ok {
				continue
			}
			d.MemberMarkers = append(d.MemberMarkers, directives(fd.Doc)...)
			d.References = c.references(pkg, fd, d.FQN(), d.References)
		}
	}

	for _, name := range order {
		c.decls = append(c.decls, *byName[name])
	}
}

// references adds every named type of the same module used inside node,
// other than self.
func (c *converter) references(pkg *packages.Package, node ast.Node, self string, refs []string) []string {
	seen := map[string]bool{self: true}
	for _, r := range refs {
		seen[r] = true
	}
	ast.Inspect(node, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		tn, ok := pkg.TypesInfo.Uses[ident].(*types.TypeName)
		if !ok || tn.Pkg() == nil || !sameModule(pkg, tn.Pkg().Path()) {
			return true
		}
		ref := qualify(pkg, tn.Pkg().Path(), tn.Name())
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

func sameModule(pkg *packages.Package, path string) bool {
	if pkg.Module == nil {
		return path == pkg.PkgPath
	}
	return path == pkg.Module.Path || strings.HasPrefix(path, pkg.Module.Path+"/")
}

func qualify(pkg *packages.Package, path, name string) string {
	if pkg.Module != nil {
		path = strings.TrimPrefix(strings.TrimPrefix(path, pkg.Module.Path), "/")
	}
	return core.JoinPath(strings.ReplaceAll(path, "/", "."), name)
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// directives returns the arch directives of a comment group, without prefix.
func directives(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var out []string
	for _, comment := range doc.List {
		if marker, ok := strings.CutPrefix(comment.Text, DirectivePrefix); ok {
			if marker = strings.TrimSpace(marker); marker != "" {
				out = append(out, marker)
			}
		}
	}
	return out
}
