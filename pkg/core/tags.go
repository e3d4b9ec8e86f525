package core

import (
	"sort"
	"strings"
)

// Tag is a capability tag inferred for a class at extraction time.
type Tag string

// Capability tags.
const (
	TagPersistentEntity    Tag = "PersistentEntity"
	TagRepositoryInterface Tag = "RepositoryInterface"
	TagServiceFacade       Tag = "ServiceFacade"
	TagErrorEnum           Tag = "ErrorEnum"
	TagWebEndpoint         Tag = "WebEndpoint"
	TagEventType           Tag = "EventType"
	TagEventListener       Tag = "EventListener"
	TagDomainType          Tag = "DomainType"
	TagConfigType          Tag = "ConfigType"
	TagPlain               Tag = "Plain"
)

// KnownTags lists every tag in canonical order.
var KnownTags = []Tag{
	TagPersistentEntity,
	TagRepositoryInterface,
	TagServiceFacade,
	TagErrorEnum,
	TagWebEndpoint,
	TagEventType,
	TagEventListener,
	TagDomainType,
	TagConfigType,
	TagPlain,
}

// ParseTag resolves a tag name case-insensitively.
func ParseTag(s string) (Tag, bool) {
	for _, t := range KnownTags {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// IsTrigger reports whether the tag marks a class that starts a use case:
// an endpoint, an event type handled by the use case, or its listener.
func (t Tag) IsTrigger() bool {
	return t == TagWebEndpoint || t == TagEventType || t == TagEventListener
}

// Tags is an immutable, sorted set of capability tags.
type Tags []Tag

// NewTags builds a sorted, de-duplicated tag set.
func NewTags(tags ...Tag) Tags {
	seen := make(map[Tag]bool, len(tags))
	out := make(Tags, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the set contains tag.
func (ts Tags) Has(tag Tag) bool {
	for _, t := range ts {
		if t == tag {
			return true
		}
	}
	return false
}

// HasTrigger reports whether any tag is a use-case trigger.
func (ts Tags) HasTrigger() bool {
	for _, t := range ts {
		if t.IsTrigger() {
			return true
		}
	}
	return false
}

// Strings returns the tag names.
func (ts Tags) Strings() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
