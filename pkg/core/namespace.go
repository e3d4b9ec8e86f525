package core

import "strings"

// NamespaceKind classifies a node of the package hierarchy.
type NamespaceKind int

// Namespace kinds.
const (
	KindPlain NamespaceKind = iota
	KindConfig
	KindCommon
	KindBoundedContext
	KindUseCase
)

// String returns the kind name.
func (k NamespaceKind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindCommon:
		return "Common"
	case KindBoundedContext:
		return "BoundedContext"
	case KindUseCase:
		return "UseCase"
	default:
		return "Plain"
	}
}

// RootName is the display name of the root namespace.
const RootName = "(root)"

// Namespace is a node in the package/module hierarchy.
// Parent is a lookup-only back reference; ownership flows from parent to children.
type Namespace struct {
	Path         string // dot separated, relative to the configured root namespace; "" for root
	Name         string // last path segment
	Kind         NamespaceKind
	Depth        int // 0 for root
	Parent       *Namespace
	Children     []*Namespace // sorted by Name
	Suppressions []string     // rule IDs suppressed for this namespace and its subtree
	Location     string
}

// IsRoot reports whether n is the root of the tree.
func (n *Namespace) IsRoot() bool {
	return n.Parent == nil
}

// DisplayPath returns the path, or RootName for the root.
func (n *Namespace) DisplayPath() string {
	if n.Path == "" {
		return RootName
	}
	return n.Path
}

// Within reports whether n is other or one of its descendants.
func (n *Namespace) Within(other *Namespace) bool {
	if other == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Module returns the nearest BoundedContext ancestor-or-self, or nil.
func (n *Namespace) Module() *Namespace {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind == KindBoundedContext {
			return cur
		}
	}
	return nil
}

// Child returns the direct child with the given name.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Namespace) ChildOfKind(kind NamespaceKind) *Namespace {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Suppresses reports whether this namespace or any ancestor suppresses ruleID.
func (n *Namespace) Suppresses(ruleID string) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if matchesSuppression(cur.Suppressions, ruleID) {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in depth-first, name order.
// Traversal is iterative so nesting depth is unbounded.
func (n *Namespace) Walk(fn func(*Namespace)) {
	stack := []*Namespace{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

func matchesSuppression(suppressions []string, ruleID string) bool {
	for _, s := range suppressions {
		if s == "*" || strings.EqualFold(s, "all") || strings.EqualFold(s, ruleID) {
			return true
		}
	}
	return false
}

// JoinPath joins namespace segments with dots.
func JoinPath(segments ...string) string {
	var parts []string
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// SplitPath splits a dot separated namespace path into segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
