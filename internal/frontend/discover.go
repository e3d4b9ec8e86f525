// Package frontend finds declaration inputs under a path and wraps each in
// the matching extract.Source.
package frontend

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/internal/frontend/declfile"
	"github.com/leapstack-labs/archlint/internal/frontend/gosrc"
	"github.com/leapstack-labs/archlint/internal/frontend/javasrc"
)

// DefaultInclude selects Java sources and declaration files.
var DefaultInclude = []string{
	"**/*.java",
	"**/*.decl.{json,yaml,yml}",
}

// DefaultExclude skips build output, dependencies and hidden directories.
var DefaultExclude = []string{
	"**/.*",
	"**/build",
	"**/target",
	"**/out",
	"**/node_modules",
	"**/vendor",
}

// Options configures discovery. Patterns are doublestar globs matched
// against slash separated paths relative to the root.
type Options struct {
	Include []string
	Exclude []string
	// NoGo disables the Go module front-end even when go.mod is present.
	NoGo   bool
	Logger *slog.Logger
}

// ValidatePatterns reports the first malformed glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Discover walks path and returns one source per input, in lexical path
// order. A Go module at the root comes first. A path that does not exist
// or cannot be walked is a FatalExtractionError.
func Discover(path string, opts Options) ([]extract.Source, error) {
	if opts.Include == nil {
		opts.Include = DefaultInclude
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if err := errors.Join(ValidatePatterns(opts.Include), ValidatePatterns(opts.Exclude)); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &extract.FatalExtractionError{Source: path, Err: err}
	}

	if !info.IsDir() {
		src := sourceFor(path, filepath.Dir(path))
		if src == nil {
			return nil, &extract.FatalExtractionError{
				Source: path,
				Err:    fmt.Errorf("unsupported input file type %q", filepath.Ext(path)),
			}
		}
		return []extract.Source{src}, nil
	}

	var sources []extract.Source
	if !opts.NoGo {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			sources = append(sources, gosrc.NewSource(path, path))
		}
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchAny(opts.Exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(opts.Include, rel) {
			return nil
		}

		if src := sourceFor(p, path); src != nil {
			sources = append(sources, src)
		} else {
			opts.Logger.Debug("no front-end for file", slog.String("path", rel))
		}
		return nil
	})
	if err != nil {
		return nil, &extract.FatalExtractionError{Source: path, Err: fmt.Errorf("walk directory: %w", err)}
	}

	opts.Logger.Debug("discovery complete",
		slog.String("path", path),
		slog.Int("sources", len(sources)))
	return sources, nil
}

func sourceFor(path, root string) extract.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return javasrc.NewSource(path, root)
	case ".json", ".yaml", ".yml":
		return declfile.NewSource(path, root)
	}
	return nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Relevant reports whether a change to path can affect a verification.
func Relevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java", ".json", ".yaml", ".yml", ".go":
		return true
	}
	return filepath.Base(path) == "go.mod"
}
