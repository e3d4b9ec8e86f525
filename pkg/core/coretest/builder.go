// Package coretest builds in-memory models for tests.
package coretest

import (
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// Builder assembles a model class by class.
type Builder struct {
	cfg     *core.RuleSetConfig
	tree    *core.TreeBuilder
	classes []*core.ClassUnit
}

// NewBuilder creates a builder. A nil cfg uses the default rule set.
func NewBuilder(cfg *core.RuleSetConfig) *Builder {
	if cfg == nil {
		cfg = core.DefaultRuleSetConfig()
	}
	return &Builder{cfg: cfg, tree: core.NewTreeBuilder(cfg)}
}

// ClassOption customises a class.
type ClassOption func(*core.ClassUnit)

// Tags sets the capability tags.
func Tags(tags ...core.Tag) ClassOption {
	return func(c *core.ClassUnit) { c.Tags = core.NewTags(tags...) }
}

// Refs adds references by FQN.
func Refs(fqns ...string) ClassOption {
	return func(c *core.ClassUnit) { c.References = append(c.References, fqns...) }
}

// Transactional marks the class transactional.
func Transactional() ClassOption {
	return func(c *core.ClassUnit) { c.Transactional = true }
}

// Suppress adds class-level suppressions.
func Suppress(ids ...string) ClassOption {
	return func(c *core.ClassUnit) { c.Suppressions = append(c.Suppressions, ids...) }
}

// At sets the location.
func At(location string) ClassOption {
	return func(c *core.ClassUnit) { c.Location = location }
}

// Private sets private visibility.
func Private() ClassOption {
	return func(c *core.ClassUnit) { c.Visibility = core.VisibilityPrivate }
}

// Namespace ensures a namespace exists, optionally suppressing rules for its subtree.
func (b *Builder) Namespace(path string, suppress ...string) *Builder {
	ns := b.tree.Ensure(path)
	ns.Suppressions = append(ns.Suppressions, suppress...)
	return b
}

// Class adds a class. Without a Tags option it is tagged DomainType.
func (b *Builder) Class(fqn string, opts ...ClassOption) *Builder {
	nsPath, name := fqn, fqn
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		nsPath, name = fqn[:i], fqn[i+1:]
	} else {
		nsPath = ""
	}
	c := &core.ClassUnit{
		FQN:        fqn,
		Name:       name,
		Namespace:  b.tree.Ensure(nsPath),
		Tags:       core.NewTags(core.TagDomainType),
		Visibility: core.VisibilityPublic,
		Suffix:     b.cfg.SuffixOf(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	b.classes = append(b.classes, c)
	return b
}

// Model builds the model.
func (b *Builder) Model() *core.Model {
	return core.NewModel(b.tree.Root(), b.classes)
}

// Config returns the rule set the builder infers kinds with.
func (b *Builder) Config() *core.RuleSetConfig {
	return b.cfg
}
