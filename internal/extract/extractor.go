// Package extract turns declaration lists into the structural model.
//
// Sources are read in parallel; each worker writes only its own buffer and
// the buffers are merged once, in source order, after every worker is done.
// Malformed declarations become PartialParseWarnings and are skipped; an
// unreadable source aborts the run with a FatalExtractionError.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// Config holds extractor options.
type Config struct {
	RuleSet *core.RuleSetConfig
	Logger  *slog.Logger
}

// Result is the extraction output.
type Result struct {
	Model             *core.Model
	Warnings          []PartialParseWarning
	Declarations      int // declarations read across all sources
	DroppedReferences int // references to unknown classes (external libraries)
}

// Extractor builds a model from declaration sources.
type Extractor struct {
	ruleSet *core.RuleSetConfig
	logger  *slog.Logger
}

// New creates an extractor. A nil rule set uses the defaults and a nil
// logger discards output.
func New(cfg Config) *Extractor {
	if cfg.RuleSet == nil {
		cfg.RuleSet = core.DefaultRuleSetConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{ruleSet: cfg.RuleSet, logger: cfg.Logger}
}

type sourceBuffer struct {
	decls    []core.Declaration
	warnings []PartialParseWarning
}

// Extract reads every source and builds the model.
func (e *Extractor) Extract(ctx context.Context, sources []Source) (*Result, error) {
	buffers := make([]sourceBuffer, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			decls, err := src.Declarations(gctx)
			var ws Warnings
			switch {
			case err == nil:
			case errors.As(err, &ws):
				buffers[i].warnings = append(buffers[i].warnings, ws...)
			default:
				return &FatalExtractionError{Source: src.Name(), Err: err}
			}
			for j := range decls {
				decls[j].Source = src.Name()
			}
			buffers[i].decls = decls
			e.logger.Debug("source read",
				slog.String("source", src.Name()),
				slog.Int("declarations", len(decls)),
				slog.Int("warnings", len(ws)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := newModelBuilder(e.ruleSet)
	for _, buf := range buffers {
		b.warnings = append(b.warnings, buf.warnings...)
		for _, d := range buf.decls {
			b.add(d)
		}
	}
	res := b.build()

	e.logger.Info("extraction complete",
		slog.Int("sources", len(sources)),
		slog.Int("declarations", res.Declarations),
		slog.Int("classes", len(res.Model.Classes())),
		slog.Int("modules", len(res.Model.Modules())),
		slog.Int("warnings", len(res.Warnings)),
		slog.Int("dropped_references", res.DroppedReferences))
	return res, nil
}

// pendingClass is a class whose references are not yet resolved.
type pendingClass struct {
	unit *core.ClassUnit
	refs []string
}

type modelBuilder struct {
	cfg      *core.RuleSetConfig
	tree     *core.TreeBuilder
	classes  []*pendingClass
	byFQN    map[string]*pendingClass
	warnings []PartialParseWarning
	count    int
}

func newModelBuilder(cfg *core.RuleSetConfig) *modelBuilder {
	return &modelBuilder{
		cfg:   cfg,
		tree:  core.NewTreeBuilder(cfg),
		byFQN: make(map[string]*pendingClass),
	}
}

func (b *modelBuilder) warn(d core.Declaration, format string, args ...any) {
	name := d.FQN()
	if d.Location != "" {
		name = fmt.Sprintf("%s (%s)", name, d.Location)
	}
	b.warnings = append(b.warnings, PartialParseWarning{
		Source:      d.Source,
		Declaration: name,
		Message:     fmt.Sprintf(format, args...),
	})
}

// relativePath strips the configured root namespace.
func (b *modelBuilder) relativePath(path string) (string, bool) {
	root := b.cfg.RootNamespace
	switch {
	case root == "":
		return path, true
	case path == root:
		return "", true
	case strings.HasPrefix(path, root+"."):
		return path[len(root)+1:], true
	default:
		return "", false
	}
}

func (b *modelBuilder) add(d core.Declaration) {
	b.count++

	if d.Kind != "" && d.Kind != core.DeclType && d.Kind != core.DeclNamespace {
		b.warn(d, "unknown declaration kind %q", d.Kind)
		return
	}

	nsPath, ok := b.relativePath(strings.TrimSpace(d.Namespace))
	if !ok {
		b.warn(d, "namespace %q is outside root namespace %q", d.Namespace, b.cfg.RootNamespace)
		return
	}
	for _, seg := range core.SplitPath(nsPath) {
		if !isIdentifier(seg) {
			b.warn(d, "invalid namespace segment %q", seg)
			return
		}
	}

	if d.IsNamespace() {
		ns := b.tree.Ensure(nsPath)
		ns.Suppressions = append(ns.Suppressions, namespaceSuppressions(d, b.cfg)...)
		if ns.Location == "" {
			ns.Location = d.Location
		}
		return
	}

	if !isIdentifier(d.Name) {
		if d.Name == "" {
			b.warn(d, "type declaration has no name")
		} else {
			b.warn(d, "invalid type name %q", d.Name)
		}
		return
	}
	vis, ok := parseVisibility(d.Visibility)
	if !ok {
		b.warn(d, "unknown visibility %q", d.Visibility)
		return
	}

	fqn := core.JoinPath(nsPath, d.Name)
	if prev, dup := b.byFQN[fqn]; dup {
		b.warn(d, "duplicate declaration of %s (first declared in %s)", fqn, prev.unit.Source)
		return
	}

	r := inferRoles(d, vis, b.cfg)
	pc := &pendingClass{
		unit: &core.ClassUnit{
			FQN:           fqn,
			Name:          d.Name,
			Namespace:     b.tree.Ensure(nsPath),
			Tags:          r.Tags,
			Visibility:    vis,
			Suffix:        b.cfg.SuffixOf(d.Name),
			Transactional: r.Transactional,
			Suppressions:  r.Suppressions,
			Location:      d.Location,
			Source:        d.Source,
		},
		refs: d.References,
	}
	b.classes = append(b.classes, pc)
	b.byFQN[fqn] = pc
}

func (b *modelBuilder) build() *Result {
	res := &Result{Declarations: b.count}

	bySimple := make(map[string][]*core.ClassUnit)
	for _, pc := range b.classes {
		bySimple[pc.unit.Name] = append(bySimple[pc.unit.Name], pc.unit)
	}

	units := make([]*core.ClassUnit, 0, len(b.classes))
	for _, pc := range b.classes {
		seen := make(map[string]bool)
		for _, raw := range pc.refs {
			target, ok := b.resolve(pc.unit, strings.TrimSpace(raw), bySimple)
			if !ok {
				res.DroppedReferences++
				continue
			}
			if target == pc.unit.FQN || seen[target] {
				continue
			}
			seen[target] = true
			pc.unit.References = append(pc.unit.References, target)
		}
		sort.Strings(pc.unit.References)
		units = append(units, pc.unit)
	}

	res.Model = core.NewModel(b.tree.Root(), units)
	res.Warnings = b.warnings
	return res
}

// ReferenceAlternatives separates candidate names in one raw reference.
// Candidates are tried in order and the first declared class wins; a
// reference with alternatives never falls back to a simple-name lookup.
const ReferenceAlternatives = "|"

// resolve maps a raw reference to a known FQN. Qualified references must
// name a declared class. A bare simple name, as written in declaration
// files, resolves to the class of that name in the referencing namespace,
// else to the only class with that name.
func (b *modelBuilder) resolve(from *core.ClassUnit, raw string, bySimple map[string][]*core.ClassUnit) (string, bool) {
	if raw == "" {
		return "", false
	}
	if strings.Contains(raw, ReferenceAlternatives) {
		for _, alt := range strings.Split(raw, ReferenceAlternatives) {
			if fqn, ok := b.resolveQualified(strings.TrimSpace(alt)); ok {
				return fqn, true
			}
		}
		return "", false
	}
	if strings.Contains(raw, ".") {
		return b.resolveQualified(raw)
	}

	candidates := bySimple[raw]
	for _, c := range candidates {
		if c.Namespace == from.Namespace {
			return c.FQN, true
		}
	}
	if len(candidates) == 1 {
		return candidates[0].FQN, true
	}
	return "", false
}

// resolveQualified maps a fully qualified name, with or without the root
// namespace, to a declared class.
func (b *modelBuilder) resolveQualified(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if rel, ok := b.relativePath(name); ok {
		if _, known := b.byFQN[rel]; known {
			return rel, true
		}
	}
	if _, known := b.byFQN[name]; known {
		return name, true
	}
	return "", false
}
