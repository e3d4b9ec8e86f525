package core

import (
	"sort"
	"strings"
)

// Default reserved namespace names.
const (
	DefaultConfigNamespace = "config"
	DefaultCommonNamespace = "common"
)

// Default escalation thresholds.
const (
	DefaultUseCasesPerModule   = 25
	DefaultClassesPerModule    = 60
	DefaultAggregatesPerModule = 12
)

// SignalMetric names a growth metric tracked by the escalation analyzer.
type SignalMetric string

// Escalation metrics.
const (
	MetricUseCases   SignalMetric = "use_cases"
	MetricClasses    SignalMetric = "classes"
	MetricAggregates SignalMetric = "aggregates"
	MetricCycle      SignalMetric = "cycle"
)

// KnownSignalMetrics lists every escalation metric.
var KnownSignalMetrics = []SignalMetric{MetricUseCases, MetricClasses, MetricAggregates, MetricCycle}

// RuleSetConfig is the configuration shared by every pipeline stage.
// Reserved words and conventions are always passed explicitly through it.
type RuleSetConfig struct {
	// RootNamespace is stripped from declaration namespaces before kind inference.
	RootNamespace string `koanf:"root_namespace" json:"root_namespace,omitempty"`

	// ReservedNames may never name a bounded context.
	ReservedNames []string `koanf:"reserved_names" json:"reserved_names"`

	// ConfigNamespace and CommonNamespace are the reserved names that denote
	// the Config and Common namespace kinds.
	ConfigNamespace string `koanf:"config_namespace" json:"config_namespace"`
	CommonNamespace string `koanf:"common_namespace" json:"common_namespace"`

	// SuffixConventions maps a capability tag to its required class-name suffix.
	SuffixConventions map[string]string `koanf:"suffix_conventions" json:"suffix_conventions"`

	// RoleMarkers maps a structural marker (annotation name) to a capability tag.
	RoleMarkers map[string]string `koanf:"role_markers" json:"role_markers"`

	// TransactionMarkers flag a class as transactional.
	TransactionMarkers []string `koanf:"transaction_markers" json:"transaction_markers"`

	// SuppressionMarker carries inline rule suppressions, e.g. SuppressArchRule("R4").
	SuppressionMarker string `koanf:"suppression_marker" json:"suppression_marker"`

	// Thresholds drive the escalation analyzer.
	Thresholds Thresholds `koanf:"thresholds" json:"thresholds"`

	// EscapeHatchAllowList holds FQN glob patterns of reviewed transaction-placement exceptions.
	EscapeHatchAllowList []string `koanf:"escape_hatch_allow_list" json:"escape_hatch_allow_list,omitempty"`

	// RuleSeverityOverrides maps rule ID to "error" or "warning".
	RuleSeverityOverrides map[string]string `koanf:"rule_severity_overrides" json:"rule_severity_overrides,omitempty"`

	// DisabledRules are not evaluated at all.
	DisabledRules []string `koanf:"disabled_rules" json:"disabled_rules,omitempty"`

	// SuppressedRules are evaluated but their violations are recorded as suppressed.
	SuppressedRules []string `koanf:"suppressed_rules" json:"suppressed_rules,omitempty"`

	// PromoteSignals lists escalation metrics (or "*") whose signals block the build.
	PromoteSignals []string `koanf:"promote_signals" json:"promote_signals,omitempty"`
}

// Thresholds holds per-module growth limits.
type Thresholds struct {
	UseCasesPerModule   int `koanf:"use_cases_per_module" json:"use_cases_per_module"`
	ClassesPerModule    int `koanf:"classes_per_module" json:"classes_per_module"`
	AggregatesPerModule int `koanf:"aggregates_per_module" json:"aggregates_per_module"`
}

// DefaultRuleSetConfig returns the conventions of the package-structure rulebook.
func DefaultRuleSetConfig() *RuleSetConfig {
	return &RuleSetConfig{
		ReservedNames:   []string{DefaultConfigNamespace, DefaultCommonNamespace},
		ConfigNamespace: DefaultConfigNamespace,
		CommonNamespace: DefaultCommonNamespace,
		SuffixConventions: map[string]string{
			string(TagPersistentEntity):    "Entity",
			string(TagRepositoryInterface): "Repository",
			string(TagServiceFacade):       "Service",
			string(TagErrorEnum):           "ErrorCode",
		},
		RoleMarkers:        DefaultRoleMarkers(),
		TransactionMarkers: []string{"Transactional"},
		SuppressionMarker:  "SuppressArchRule",
		Thresholds: Thresholds{
			UseCasesPerModule:   DefaultUseCasesPerModule,
			ClassesPerModule:    DefaultClassesPerModule,
			AggregatesPerModule: DefaultAggregatesPerModule,
		},
	}
}

// DefaultRoleMarkers returns the default marker to capability tag table.
func DefaultRoleMarkers() map[string]string {
	return map[string]string{
		"Entity":                     string(TagPersistentEntity),
		"Table":                      string(TagPersistentEntity),
		"Document":                   string(TagPersistentEntity),
		"Repository":                 string(TagRepositoryInterface),
		"Service":                    string(TagServiceFacade),
		"RestController":             string(TagWebEndpoint),
		"Controller":                 string(TagWebEndpoint),
		"DomainEvent":                string(TagEventType),
		"EventListener":              string(TagEventListener),
		"KafkaListener":              string(TagEventListener),
		"TransactionalEventListener": string(TagEventListener),
		"Configuration":              string(TagConfigType),
		"ConfigurationProperties":    string(TagConfigType),
		"ErrorEnum":                  string(TagErrorEnum),
	}
}

// SuffixFor returns the configured suffix for a tag, if any.
func (c *RuleSetConfig) SuffixFor(tag Tag) (string, bool) {
	for role, suffix := range c.SuffixConventions {
		if strings.EqualFold(role, string(tag)) && suffix != "" {
			return suffix, true
		}
	}
	return "", false
}

// TagForMarker resolves a marker name through the role marker table.
func (c *RuleSetConfig) TagForMarker(marker string) (Tag, bool) {
	for m, role := range c.RoleMarkers {
		if strings.EqualFold(m, marker) {
			return ParseTag(role)
		}
	}
	return "", false
}

// IsTransactionMarker reports whether marker flags a class as transactional.
func (c *RuleSetConfig) IsTransactionMarker(marker string) bool {
	for _, m := range c.TransactionMarkers {
		if strings.EqualFold(m, marker) {
			return true
		}
	}
	return false
}

// IsReserved reports whether name matches a reserved word, case-insensitively.
func (c *RuleSetConfig) IsReserved(name string) bool {
	for _, r := range c.AllReservedNames() {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

// AllReservedNames returns the reserved names including the Config and
// Common names, de-duplicated and sorted.
func (c *RuleSetConfig) AllReservedNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range append([]string{c.ConfigNamespace, c.CommonNamespace}, c.ReservedNames...) {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsRuleSuppressed reports whether ruleID is listed in SuppressedRules.
func (c *RuleSetConfig) IsRuleSuppressed(ruleID string) bool {
	return matchesSuppression(c.SuppressedRules, ruleID)
}

// IsPromoted reports whether signals for metric block the build.
func (c *RuleSetConfig) IsPromoted(metric SignalMetric) bool {
	for _, p := range c.PromoteSignals {
		if p == "*" || strings.EqualFold(p, string(metric)) {
			return true
		}
	}
	return false
}

// SuffixOf returns the longest configured suffix name ends with, or "".
func (c *RuleSetConfig) SuffixOf(name string) string {
	best := ""
	for _, suffix := range c.SuffixConventions {
		if suffix != "" && len(name) > len(suffix) && strings.HasSuffix(name, suffix) && len(suffix) > len(best) {
			best = suffix
		}
	}
	return best
}

// TagForSuffix resolves a class name through the suffix convention table,
// preferring the longest matching suffix. Ties resolve to the role that sorts first.
func (c *RuleSetConfig) TagForSuffix(name string) (Tag, bool) {
	roles := make([]string, 0, len(c.SuffixConventions))
	for role := range c.SuffixConventions {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var (
		best    Tag
		bestLen int
	)
	for _, role := range roles {
		suffix := c.SuffixConventions[role]
		if suffix == "" || len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) || len(suffix) <= bestLen {
			continue
		}
		if tag, ok := ParseTag(role); ok {
			best, bestLen = tag, len(suffix)
		}
	}
	return best, bestLen > 0
}
