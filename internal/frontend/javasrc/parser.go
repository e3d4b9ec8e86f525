// Package javasrc reads type declarations from Java sources using tree-sitter.
package javasrc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/pkg/core"
)

// Source is one Java file.
type Source struct {
	path string
	name string
}

// NewSource creates a source for a Java file. The name is the path relative
// to root, used in locations and warnings.
func NewSource(path, root string) *Source {
	name, err := filepath.Rel(root, path)
	if err != nil {
		name = path
	}
	return &Source{path: path, name: filepath.ToSlash(name)}
}

// Name implements extract.Source.
func (s *Source) Name() string { return s.name }

// Declarations implements extract.Source.
func (s *Source) Declarations(ctx context.Context) ([]core.Declaration, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(ctx, s.name, content)
}

// Parse extracts the top-level type declarations of a compilation unit, plus
// a namespace declaration when the package itself carries annotations
// (package-info.java). Syntax errors are reported as extract.Warnings along
// with whatever could be read.
func Parse(ctx context.Context, name string, content []byte) ([]core.Declaration, error) {
	// sitter.Parser is not safe for concurrent use; one per file.
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	u := &unit{name: name, content: content, imports: make(map[string]string)}
	u.local = u.localTypeNames(root)

	var decls []core.Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			u.pkg = u.packageName(child)
			if markers := u.annotations(child); len(markers) > 0 {
				decls = append(decls, core.Declaration{
					Namespace: u.pkg,
					Kind:      core.DeclNamespace,
					Markers:   markers,
					Location:  u.location(child),
				})
			}
		case "import_declaration":
			u.addImport(child)
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if d, ok := u.typeDeclaration(child); ok {
				decls = append(decls, d)
			}
		}
	}

	if root.HasError() {
		return decls, extract.Warnings{{
			Source:  name,
			Message: "syntax errors found; declarations may be incomplete",
		}}
	}
	return decls, nil
}

type unit struct {
	name    string
	content []byte
	pkg     string
	imports map[string]string // simple name -> FQN
	local   map[string]bool   // nested types and type parameters

	// wildcards are on-demand imported packages, in source order
	wildcards []string
}

func (u *unit) text(n *sitter.Node) string {
	return string(u.content[n.StartByte():n.EndByte()])
}

func (u *unit) location(n *sitter.Node) string {
	return fmt.Sprintf("%s:%d", u.name, n.StartPoint().Row+1)
}

func (u *unit) packageName(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return u.text(child)
		}
	}
	return ""
}

func (u *unit) addImport(n *sitter.Node) {
	text := u.text(n)
	if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(text, "import")), "static") {
		return
	}
	onDemand := strings.Contains(text, "*")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "scoped_identifier" && child.Type() != "identifier" {
			continue
		}
		name := u.text(child)
		if onDemand {
			if name != "java.lang" {
				u.wildcards = append(u.wildcards, name)
			}
			continue
		}
		u.imports[name[strings.LastIndex(name, ".")+1:]] = name
	}
}

// annotations returns the annotations directly on n or inside its modifiers.
func (u *unit) annotations(n *sitter.Node) []string {
	var out []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "marker_annotation", "annotation":
			out = append(out, strings.TrimSpace(u.text(child)))
		case "modifiers":
			for j := 0; j < int(child.ChildCount()); j++ {
				mod := child.Child(j)
				if mod.Type() == "marker_annotation" || mod.Type() == "annotation" {
					out = append(out, strings.TrimSpace(u.text(mod)))
				}
			}
		}
	}
	return out
}

func (u *unit) visibility(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			switch u.text(child.Child(j)) {
			case "public":
				return string(core.VisibilityPublic)
			case "protected":
				return string(core.VisibilityProtected)
			case "private":
				return string(core.VisibilityPrivate)
			}
		}
	}
	return string(core.VisibilityPackage)
}

func (u *unit) typeDeclaration(n *sitter.Node) (core.Declaration, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return core.Declaration{}, false
	}
	name := u.text(nameNode)

	d := core.Declaration{
		Name:       name,
		Namespace:  u.pkg,
		Kind:       core.DeclType,
		Markers:    u.annotations(n),
		Visibility: u.visibility(n),
		Location:   u.location(n),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		d.MemberMarkers = u.memberMarkers(body)
	}
	d.References = u.references(n, name)
	return d, true
}

// memberMarkers collects annotations on methods, constructors and fields.
func (u *unit) memberMarkers(body *sitter.Node) []string {
	var out []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_declaration", "constructor_declaration", "field_declaration":
			out = append(out, u.annotations(child)...)
		}
	}
	return out
}

// references collects every type named anywhere inside the declaration,
// qualified the way the compiler would see them. Nested types and type
// parameters name nothing outside the unit and are skipped. A simple name
// that is not imported lives in the same package or comes from an
// on-demand import; the alternatives are joined with
// extract.ReferenceAlternatives in lookup order.
func (u *unit) references(decl *sitter.Node, self string) []string {
	local := map[string]bool{self: true}
	for name := range u.local {
		local[name] = true
	}
	seen := make(map[string]bool)
	var refs []string

	stack := []*sitter.Node{decl}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var ref string
		switch n.Type() {
		case "scoped_type_identifier", "type_identifier":
			ref = u.qualify(u.text(n), local)
		case "marker_annotation", "annotation":
			// annotation names are markers, not dependencies
			continue
		default:
			for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
				stack = append(stack, n.NamedChild(i))
			}
			continue
		}
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// localTypeNames returns the nested types and type parameters declared
// anywhere in the compilation unit. Top-level types are not included.
func (u *unit) localTypeNames(root *sitter.Node) map[string]bool {
	names := make(map[string]bool)
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			if p := n.Parent(); p != nil && p.Type() != "program" {
				if name := n.ChildByFieldName("name"); name != nil {
					names[u.text(name)] = true
				}
			}
		case "type_parameter":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c.Type() == "type_identifier" || c.Type() == "identifier" {
					names[u.text(c)] = true
					break
				}
			}
		}
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return names
}

// qualify turns a type as written into a reference. Qualified names are cut
// after their first type segment since nested types fold into their
// top-level type: "Invoice.Line" is a reference to Invoice.
func (u *unit) qualify(written string, local map[string]bool) string {
	segments := strings.Split(written, ".")
	first := 0
	for first < len(segments)-1 && !isTypeSegment(segments[first]) {
		first++
	}
	if first > 0 {
		return strings.Join(segments[:first+1], ".")
	}

	name := segments[0]
	if local[name] || isBuiltinType(name) {
		return ""
	}
	if fqn, ok := u.imports[name]; ok {
		return fqn
	}
	if u.pkg == "" && len(u.wildcards) == 0 {
		return name
	}
	alternatives := make([]string, 0, len(u.wildcards)+1)
	alternatives = append(alternatives, core.JoinPath(u.pkg, name))
	for _, pkg := range u.wildcards {
		alternatives = append(alternatives, pkg+"."+name)
	}
	return strings.Join(alternatives, extract.ReferenceAlternatives)
}

// isTypeSegment reports whether a name segment looks like a type rather than
// a package, following the Java naming convention.
func isTypeSegment(s string) bool {
	return s != "" && unicode.IsUpper([]rune(s)[0])
}

// isBuiltinType returns true if the type is a Java built-in type.
func isBuiltinType(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double",
		"void", "var", "Boolean", "Byte", "Character", "Short", "Integer", "Long", "Float", "Double",
		"String", "Object", "Class", "Enum", "Void",
		"Number", "CharSequence", "Comparable", "Cloneable", "Iterable",
		"Throwable", "Exception", "RuntimeException", "Error":
		return true
	}
	return false
}
