package core

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// importsOf returns the imports of every non-test Go file in dir, keyed by file name.
func importsOf(t *testing.T, dir string) map[string][]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}

	fset := token.NewFileSet()
	out := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("parse %s: %v", name, err)
			continue
		}
		for _, imp := range f.Imports {
			out[filepath.Join(dir, name)] = append(out[filepath.Join(dir, name)], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return out
}

func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

// TestStdlibOnlyPackages verifies the leaf packages import only the standard
// library. Every pipeline stage depends on them.
func TestStdlibOnlyPackages(t *testing.T) {
	for _, dir := range []string{".", filepath.Join("..", "dag")} {
		for file, imports := range importsOf(t, dir) {
			for _, imp := range imports {
				if !isStdlib(imp) {
					t.Errorf("%s imports non-stdlib package %s", file, imp)
				}
			}
		}
	}
}

// TestPkgDoesNotImportInternal verifies that the public packages stay usable
// without the CLI and front-ends.
func TestPkgDoesNotImportInternal(t *testing.T) {
	root := ".."
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || d.Name() == "testdata" {
			return err
		}
		for file, imports := range importsOf(t, path) {
			for _, imp := range imports {
				if strings.Contains(imp, "/internal/") {
					t.Errorf("%s imports internal package %s", file, imp)
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}
