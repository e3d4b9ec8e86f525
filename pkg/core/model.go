package core

import "sort"

// Visibility is the declared visibility of a class.
type Visibility string

// Visibility values.
const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
	VisibilityPrivate   Visibility = "private"
)

// ClassUnit is one declared type. It is immutable after extraction.
type ClassUnit struct {
	FQN           string // namespace path + "." + name
	Name          string
	Namespace     *Namespace
	Tags          Tags
	Visibility    Visibility
	Suffix        string   // configured naming suffix the name ends with, if any
	References    []string // FQNs of referenced classes, sorted, resolved
	Transactional bool
	Suppressions  []string
	Location      string // "file:line" when known
	Source        string // declaration source the class came from
}

// Suppresses reports whether a class-level or namespace-level marker suppresses ruleID.
func (c *ClassUnit) Suppresses(ruleID string) bool {
	if matchesSuppression(c.Suppressions, ruleID) {
		return true
	}
	return c.Namespace != nil && c.Namespace.Suppresses(ruleID)
}

// SortKey returns the location when known, falling back to the FQN.
func (c *ClassUnit) SortKey() string {
	if c.Location != "" {
		return c.Location
	}
	return c.FQN
}

// Model is the structural model of a codebase: a namespace tree plus classes.
// Build it once with NewModel; it is read-only afterwards.
type Model struct {
	root       *Namespace
	classes    []*ClassUnit
	byFQN      map[string]*ClassUnit
	byPath     map[string]*Namespace
	modules    []*Namespace
	byModule   map[*Namespace][]*ClassUnit
	triggered  map[*Namespace]bool
	useCaseOf  map[*ClassUnit]*Namespace
	namespaces []*Namespace
}

// NewModel indexes a namespace tree and its classes.
func NewModel(root *Namespace, classes []*ClassUnit) *Model {
	m := &Model{
		root:      root,
		byFQN:     make(map[string]*ClassUnit, len(classes)),
		byPath:    make(map[string]*Namespace),
		byModule:  make(map[*Namespace][]*ClassUnit),
		triggered: make(map[*Namespace]bool),
		useCaseOf: make(map[*ClassUnit]*Namespace, len(classes)),
	}

	m.classes = make([]*ClassUnit, len(classes))
	copy(m.classes, classes)
	sort.Slice(m.classes, func(i, j int) bool { return m.classes[i].FQN < m.classes[j].FQN })

	root.Walk(func(ns *Namespace) {
		m.byPath[ns.Path] = ns
		m.namespaces = append(m.namespaces, ns)
		if ns.Kind == KindBoundedContext {
			m.modules = append(m.modules, ns)
		}
	})
	sort.Slice(m.namespaces, func(i, j int) bool { return m.namespaces[i].Path < m.namespaces[j].Path })
	sort.Slice(m.modules, func(i, j int) bool { return m.modules[i].Path < m.modules[j].Path })

	for _, c := range m.classes {
		m.byFQN[c.FQN] = c
		if mod := c.Namespace.Module(); mod != nil {
			m.byModule[mod] = append(m.byModule[mod], c)
		}
		if c.Namespace.Kind == KindUseCase && c.Tags.HasTrigger() {
			m.triggered[c.Namespace] = true
		}
	}
	for _, c := range m.classes {
		if uc := m.resolveUseCase(c.Namespace); uc != nil {
			m.useCaseOf[c] = uc
		}
	}
	return m
}

// resolveUseCase finds the nearest triggered UseCase ancestor-or-self,
// falling back to the top-most UseCase ancestor.
func (m *Model) resolveUseCase(ns *Namespace) *Namespace {
	var topMost *Namespace
	for cur := ns; cur != nil; cur = cur.Parent {
		if cur.Kind != KindUseCase {
			continue
		}
		if m.triggered[cur] {
			return cur
		}
		topMost = cur
	}
	return topMost
}

// Root returns the root namespace.
func (m *Model) Root() *Namespace { return m.root }

// Classes returns all classes sorted by FQN.
func (m *Model) Classes() []*ClassUnit { return m.classes }

// Class looks up a class by FQN.
func (m *Model) Class(fqn string) (*ClassUnit, bool) {
	c, ok := m.byFQN[fqn]
	return c, ok
}

// Namespace looks up a namespace by path.
func (m *Model) Namespace(path string) (*Namespace, bool) {
	ns, ok := m.byPath[path]
	return ns, ok
}

// Namespaces returns every namespace sorted by path, root first.
func (m *Model) Namespaces() []*Namespace { return m.namespaces }

// Modules returns all BoundedContext namespaces sorted by path.
func (m *Model) Modules() []*Namespace { return m.modules }

// ClassesOf returns the classes owned by a module, sorted by FQN.
func (m *Model) ClassesOf(module *Namespace) []*ClassUnit { return m.byModule[module] }

// UseCaseOf returns the owning use case of a class, or nil.
func (m *Model) UseCaseOf(c *ClassUnit) *Namespace { return m.useCaseOf[c] }

// IsTriggered reports whether a UseCase namespace directly holds a trigger class.
func (m *Model) IsTriggered(ns *Namespace) bool { return m.triggered[ns] }

// IsPublic reports whether c belongs to its module's public surface:
// ServiceFacade classes at the module root plus EventType classes at the
// module root or inside the module's Common sub-namespace. Classes outside
// any module are shared and always public.
func (m *Model) IsPublic(c *ClassUnit) bool {
	mod := c.Namespace.Module()
	if mod == nil {
		return true
	}
	if c.Tags.Has(TagServiceFacade) && c.Namespace == mod {
		return true
	}
	if c.Tags.Has(TagEventType) {
		if c.Namespace == mod {
			return true
		}
		if common := mod.ChildOfKind(KindCommon); common != nil && c.Namespace.Within(common) {
			return true
		}
	}
	return false
}

// NodeOf returns the condensation-graph node a class collapses into: its
// module path, the path of the top-level Config/Common/Plain namespace it
// lives under, or RootName for classes declared at the root.
func (m *Model) NodeOf(c *ClassUnit) string {
	if mod := c.Namespace.Module(); mod != nil {
		return mod.Path
	}
	top := c.Namespace
	for top.Parent != nil && !top.Parent.IsRoot() {
		top = top.Parent
	}
	return top.DisplayPath()
}
