package core

// Declaration kinds.
const (
	DeclType      = "type"
	DeclNamespace = "namespace"
)

// Declaration is one parsed declaration handed over by a front-end.
// It is the only input contract between parsers and the extractor.
type Declaration struct {
	// Name is the simple type name. Empty for namespace declarations.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Namespace is the dot separated owning path, e.g. "com.acme.billing.create".
	Namespace string `json:"namespace" yaml:"namespace"`

	// Kind is "type" (default) or "namespace" for package-level declarations
	// such as package-info files.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Markers are structural markers/annotations, optionally with arguments:
	// "Entity", "SuppressArchRule(R4, R6)".
	Markers []string `json:"markers,omitempty" yaml:"markers,omitempty"`

	// MemberMarkers are markers found on members (methods, fields).
	MemberMarkers []string `json:"memberMarkers,omitempty" yaml:"memberMarkers,omitempty"`

	// Visibility is public, protected, package or private. Empty means public.
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`

	// References are raw type references, fully qualified or simple names.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`

	// Suppress lists rule IDs suppressed inline for this declaration.
	Suppress []string `json:"suppress,omitempty" yaml:"suppress,omitempty"`

	// Location is the source position, "file:line".
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Source names the input the declaration came from. Set by the extractor.
	Source string `json:"-" yaml:"-"`
}

// FQN returns the fully qualified name of a type declaration.
func (d Declaration) FQN() string {
	return JoinPath(d.Namespace, d.Name)
}

// IsNamespace reports whether this declaration describes a namespace.
func (d Declaration) IsNamespace() bool {
	return d.Kind == DeclNamespace
}
