package extract

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/archlint/pkg/core"
)

// marker is a parsed structural marker such as SuppressArchRule("R4", "R6").
type marker struct {
	Name string
	Args []string
}

// parseMarker accepts "@pkg.Name(args)", "Name(args)" and "Name". The
// package qualifier is dropped; argument quotes and braces are stripped.
func parseMarker(raw string) marker {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "@"))

	var args string
	if i := strings.IndexByte(s, '('); i >= 0 {
		args = strings.TrimSuffix(strings.TrimSpace(s[i+1:]), ")")
		s = strings.TrimSpace(s[:i])
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}

	m := marker{Name: s}
	for _, a := range strings.Split(args, ",") {
		a = strings.TrimSpace(a)
		if eq := strings.IndexByte(a, '='); eq >= 0 {
			a = strings.TrimSpace(a[eq+1:])
		}
		a = strings.Trim(a, "{}\"' ")
		if a != "" {
			m.Args = append(m.Args, a)
		}
	}
	return m
}

// roles is the result of role inference for one declaration.
type roles struct {
	Tags          core.Tags
	Transactional bool
	Suppressions  []string
}

// inferRoles resolves the capability tags of a type declaration in priority
// order: explicit markers, then naming suffix, then the DomainType/Plain
// fallback by visibility.
func inferRoles(d core.Declaration, vis core.Visibility, cfg *core.RuleSetConfig) roles {
	var r roles
	var tags []core.Tag

	for _, raw := range d.Markers {
		m := parseMarker(raw)
		if m.Name == "" {
			continue
		}
		if tag, ok := cfg.TagForMarker(m.Name); ok {
			tags = append(tags, tag)
		}
		if cfg.IsTransactionMarker(m.Name) {
			r.Transactional = true
		}
		if strings.EqualFold(m.Name, cfg.SuppressionMarker) {
			r.Suppressions = append(r.Suppressions, m.Args...)
		}
	}
	for _, raw := range d.MemberMarkers {
		if cfg.IsTransactionMarker(parseMarker(raw).Name) {
			r.Transactional = true
		}
	}
	r.Suppressions = append(r.Suppressions, d.Suppress...)

	if len(tags) == 0 {
		if tag, ok := cfg.TagForSuffix(d.Name); ok {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		if vis == core.VisibilityPublic {
			tags = append(tags, core.TagDomainType)
		} else {
			tags = append(tags, core.TagPlain)
		}
	}
	r.Tags = core.NewTags(tags...)
	return r
}

// namespaceSuppressions collects suppressions carried by a namespace declaration.
func namespaceSuppressions(d core.Declaration, cfg *core.RuleSetConfig) []string {
	out := append([]string(nil), d.Suppress...)
	for _, raw := range d.Markers {
		m := parseMarker(raw)
		if strings.EqualFold(m.Name, cfg.SuppressionMarker) {
			out = append(out, m.Args...)
		}
	}
	return out
}

func parseVisibility(s string) (core.Visibility, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "public":
		return core.VisibilityPublic, true
	case "protected":
		return core.VisibilityProtected, true
	case "package", "package-private", "default", "internal":
		return core.VisibilityPackage, true
	case "private":
		return core.VisibilityPrivate, true
	default:
		return "", false
	}
}

// isIdentifier reports whether s is a valid declaration or namespace segment.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
