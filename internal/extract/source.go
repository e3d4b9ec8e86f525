package extract

import (
	"context"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// Source supplies parsed declarations. Implementations are front-ends such
// as declaration files or language parsers.
//
// Declarations returns a Warnings error to report recoverable problems; any
// other error marks the whole source unreadable.
type Source interface {
	Name() string
	Declarations(ctx context.Context) ([]core.Declaration, error)
}

// StaticSource is an in-memory Source.
type StaticSource struct {
	SourceName string
	Decls      []core.Declaration
	Err        error
}

// Name implements Source.
func (s StaticSource) Name() string { return s.SourceName }

// Declarations implements Source.
func (s StaticSource) Declarations(context.Context) ([]core.Declaration, error) {
	return s.Decls, s.Err
}
