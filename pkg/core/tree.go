package core

import "sort"

// InferKind derives the kind of a namespace segment from its parent and the
// reserved names in cfg.
func InferKind(parent *Namespace, segment string, cfg *RuleSetConfig) NamespaceKind {
	depth := parent.Depth + 1
	switch {
	case depth == 1 && segment == cfg.ConfigNamespace:
		return KindConfig
	case segment == cfg.CommonNamespace:
		return KindCommon
	case depth == 1:
		return KindBoundedContext
	case segment == cfg.ConfigNamespace:
		return KindPlain
	case parent.Kind == KindBoundedContext || parent.Kind == KindUseCase:
		return KindUseCase
	default:
		return KindPlain
	}
}

// TreeBuilder grows a namespace tree one path at a time.
type TreeBuilder struct {
	cfg    *RuleSetConfig
	root   *Namespace
	byPath map[string]*Namespace
}

// NewTreeBuilder creates a builder holding only the root namespace.
func NewTreeBuilder(cfg *RuleSetConfig) *TreeBuilder {
	root := &Namespace{Kind: KindPlain}
	return &TreeBuilder{
		cfg:    cfg,
		root:   root,
		byPath: map[string]*Namespace{"": root},
	}
}

// Ensure returns the namespace at path, creating it and any missing ancestors.
func (b *TreeBuilder) Ensure(path string) *Namespace {
	if ns, ok := b.byPath[path]; ok {
		return ns
	}
	cur := b.root
	for i, seg := range SplitPath(path) {
		next := cur.Child(seg)
		if next == nil {
			next = &Namespace{
				Path:   JoinPath(cur.Path, seg),
				Name:   seg,
				Kind:   InferKind(cur, seg, b.cfg),
				Depth:  i + 1,
				Parent: cur,
			}
			cur.Children = append(cur.Children, next)
			b.byPath[next.Path] = next
		}
		cur = next
	}
	return cur
}

// Root sorts every child list by name and returns the root.
func (b *TreeBuilder) Root() *Namespace {
	b.root.Walk(func(ns *Namespace) {
		sort.Slice(ns.Children, func(i, j int) bool { return ns.Children[i].Name < ns.Children[j].Name })
	})
	return b.root
}
