package lint

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// globalRegistry is the single global registry for all rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules in rule ID order.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return CompareRuleIDs(rules[i].ID, rules[j].ID) < 0 })
	return rules
}

// GetByID returns a rule by its ID, case-insensitively.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[strings.ToUpper(strings.TrimSpace(id))]
	return rule, ok
}

// GetByGroup returns all rules in a group, in rule ID order. Group names
// match case-insensitively.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if strings.EqualFold(rule.Group, group) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// IsKnown reports whether a rule with the given ID is registered.
func IsKnown(id string) bool {
	_, ok := GetByID(id)
	return ok
}

// CompareRuleIDs orders rule IDs by prefix, then numerically, so R2 sorts before R10.
func CompareRuleIDs(a, b string) int {
	pa, na := splitRuleID(a)
	pb, nb := splitRuleID(b)
	if pa != pb {
		return strings.Compare(pa, pb)
	}
	if na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func splitRuleID(id string) (string, int) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, -1
	}
	return id[:i], n
}
