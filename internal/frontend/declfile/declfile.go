// Package declfile reads pre-extracted declarations from JSON or YAML files.
//
// A file holds either a list of declarations or a document with a
// "declarations" key:
//
//	declarations:
//	  - name: InvoiceEntity
//	    namespace: com.acme.billing.create
//	    markers: [Entity]
//	    references: [com.acme.billing.create.InvoiceRepository]
package declfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/pkg/core"
)

// Source is one declaration file.
type Source struct {
	path string
	name string
}

// NewSource creates a source for a declaration file, named relative to root.
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
func (s *Source) Declarations(_ context.Context) ([]core.Declaration, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(s.name, data)
}

type document struct {
	Declarations []yaml.Node `yaml:"declarations"`
}

// Parse decodes a declaration document. JSON is accepted as YAML. Entries
// that fail to decode are reported as warnings; a document that is not a
// list or mapping is an error.
func Parse(name string, data []byte) ([]core.Declaration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode declarations: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var entries []*yaml.Node
	top := root.Content[0]
	switch top.Kind {
	case yaml.SequenceNode:
		entries = top.Content
	case yaml.MappingNode:
		var doc document
		if err := top.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode declarations: %w", err)
		}
		for i := range doc.Declarations {
			entries = append(entries, &doc.Declarations[i])
		}
	default:
		return nil, fmt.Errorf("decode declarations: expected a list or a mapping, got %s", kindName(top.Kind))
	}

	decls := make([]core.Declaration, 0, len(entries))
	var warnings extract.Warnings
	for _, entry := range entries {
		var d core.Declaration
		if err := entry.Decode(&d); err != nil {
			warnings = append(warnings, extract.PartialParseWarning{
				Source:  name,
				Message: fmt.Sprintf("line %d: %v", entry.Line, err),
			})
			continue
		}
		if d.Location == "" {
			d.Location = fmt.Sprintf("%s:%d", name, entry.Line)
		}
		decls = append(decls, d)
	}
	if len(warnings) > 0 {
		return decls, warnings
	}
	return decls, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown"
}
