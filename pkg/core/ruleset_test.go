package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSetConfig_Defaults(t *testing.T) {
	cfg := DefaultRuleSetConfig()

	suffix, ok := cfg.SuffixFor(TagPersistentEntity)
	assert.True(t, ok)
	assert.Equal(t, "Entity", suffix)

	_, ok = cfg.SuffixFor(TagWebEndpoint)
	assert.False(t, ok)

	assert.Equal(t, []string{"common", "config"}, cfg.AllReservedNames())
	assert.True(t, cfg.IsReserved("CONFIG"))
	assert.False(t, cfg.IsReserved("billing"))
	assert.True(t, cfg.IsTransactionMarker("transactional"))
}

func TestRuleSetConfig_TagForMarker(t *testing.T) {
	cfg := DefaultRuleSetConfig()

	tag, ok := cfg.TagForMarker("entity")
	assert.True(t, ok)
	assert.Equal(t, TagPersistentEntity, tag)

	tag, ok = cfg.TagForMarker("KafkaListener")
	assert.True(t, ok)
	assert.Equal(t, TagEventListener, tag)

	_, ok = cfg.TagForMarker("Deprecated")
	assert.False(t, ok)
}

func TestRuleSetConfig_SuffixMatching(t *testing.T) {
	cfg := DefaultRuleSetConfig()
	cfg.SuffixConventions[string(TagEventType)] = "Event"

	tests := []struct {
		name    string
		suffix  string
		tag     Tag
		matched bool
	}{
		{"PolicyEntity", "Entity", TagPersistentEntity, true},
		{"Policy", "", "", false},
		{"Entity", "", "", false},
		{"PolicyRepository", "Repository", TagRepositoryInterface, true},
		{"BillingService", "Service", TagServiceFacade, true},
		{"InvoicePaidEvent", "Event", TagEventType, true},
		{"BillingErrorCode", "ErrorCode", TagErrorEnum, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.suffix, cfg.SuffixOf(tt.name))
			tag, ok := cfg.TagForSuffix(tt.name)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.tag, tag)
		})
	}
}

func TestRuleSetConfig_SuppressedAndPromoted(t *testing.T) {
	cfg := DefaultRuleSetConfig()
	cfg.SuppressedRules = []string{"R4"}
	cfg.PromoteSignals = []string{"classes"}

	assert.True(t, cfg.IsRuleSuppressed("r4"))
	assert.False(t, cfg.IsRuleSuppressed("R5"))
	assert.True(t, cfg.IsPromoted(MetricClasses))
	assert.False(t, cfg.IsPromoted(MetricCycle))

	cfg.PromoteSignals = []string{"*"}
	assert.True(t, cfg.IsPromoted(MetricCycle))
}

func TestConfigurationError(t *testing.T) {
	var cerr ConfigurationError
	assert.NoError(t, cerr.OrNil())

	cerr.Add("threshold %s must be positive", "classes_per_module")
	assert.EqualError(t, cerr.OrNil(), "invalid configuration: threshold classes_per_module must be positive")

	cerr.Add("unknown rule id %q", "R99")
	assert.Contains(t, cerr.Error(), "2 problems")
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity("warn")
	assert.True(t, ok)
	assert.Equal(t, SeverityWarning, sev)

	sev, ok = ParseSeverity(" ERROR ")
	assert.True(t, ok)
	assert.Equal(t, SeverityError, sev)

	_, ok = ParseSeverity("fatal")
	assert.False(t, ok)
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	var sev Severity
	require.NoError(t, sev.UnmarshalText([]byte("warning")))
	assert.Equal(t, SeverityWarning, sev)

	text, err := SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	assert.Error(t, sev.UnmarshalText([]byte("fatal")))
}
