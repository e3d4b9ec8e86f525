// Package escalation computes per-module growth metrics and turns threshold
// crossings into advisory signals.
package escalation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/depgraph"
)

// Suggestions per metric.
const (
	SuggestGroupUseCases = "introduce a resource-grouping intermediate namespace"
	SuggestSplitModule   = "split into a sub-module"
	SuggestBreakCycle    = "break the dependency cycle"
)

// Signal is a growth recommendation for one module.
type Signal struct {
	Module     string            `json:"module"`
	Metric     core.SignalMetric `json:"metric"`
	Value      int               `json:"value"`
	Threshold  int               `json:"threshold"`
	Suggestion string            `json:"suggestion"`
	Severity   core.Severity     `json:"severity"`
	Blocking   bool              `json:"blocking"`
}

// Metrics are the growth measurements of a module.
type Metrics struct {
	Module     string
	UseCases   int // distinct owning use cases of the module's classes
	Classes    int
	Aggregates int // distinct PersistentEntity classes
	// CycleSize is the number of nodes in the cycle the module takes part
	// in, or 0.
	CycleSize int
}

// Measure returns the metrics of every module, sorted by module path.
func Measure(g *depgraph.Graph) []Metrics {
	m := g.Model()

	out := make([]Metrics, 0, len(m.Modules()))
	for _, mod := range m.Modules() {
		classes := m.ClassesOf(mod)
		useCases := make(map[*core.Namespace]bool)
		aggregates := 0
		for _, c := range classes {
			if uc := m.UseCaseOf(c); uc != nil {
				useCases[uc] = true
			}
			if c.Tags.Has(core.TagPersistentEntity) {
				aggregates++
			}
		}
		out = append(out, Metrics{
			Module:     mod.Path,
			UseCases:   len(useCases),
			Classes:    len(classes),
			Aggregates: aggregates,
			CycleSize:  len(g.CycleOf(mod.Path)),
		})
	}
	return out
}

// Analyzer turns metrics into signals.
type Analyzer struct {
	ruleSet *core.RuleSetConfig
	logger  *slog.Logger
	cycles  bool
}

// NewAnalyzer creates an analyzer. A nil rule set uses the defaults.
func NewAnalyzer(ruleSet *core.RuleSetConfig, logger *slog.Logger) *Analyzer {
	if ruleSet == nil {
		ruleSet = core.DefaultRuleSetConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{ruleSet: ruleSet, logger: logger, cycles: true}
}

// WithoutCycles drops the cycle signal. The signal reports what the cycle
// rule found, so it goes when that rule is disabled.
func (a *Analyzer) WithoutCycles() *Analyzer {
	a.cycles = false
	return a
}

// Analyze returns the signals for every module, in module order and then
// metric order. Thresholds fire on values strictly greater than the limit;
// a cycle fires at error severity unless cycles are disabled.
func (a *Analyzer) Analyze(g *depgraph.Graph) []Signal {
	t := a.ruleSet.Thresholds
	var signals []Signal

	for _, m := range Measure(g) {
		if m.UseCases > t.UseCasesPerModule {
			signals = append(signals, a.signal(m.Module, core.MetricUseCases, m.UseCases, t.UseCasesPerModule, SuggestGroupUseCases, core.SeverityWarning))
		}
		if m.Classes > t.ClassesPerModule {
			signals = append(signals, a.signal(m.Module, core.MetricClasses, m.Classes, t.ClassesPerModule, SuggestSplitModule, core.SeverityWarning))
		}
		if m.Aggregates > t.AggregatesPerModule {
			signals = append(signals, a.signal(m.Module, core.MetricAggregates, m.Aggregates, t.AggregatesPerModule, SuggestSplitModule, core.SeverityWarning))
		}
		if a.cycles && m.CycleSize > 0 {
			signals = append(signals, a.signal(m.Module, core.MetricCycle, m.CycleSize, 0, SuggestBreakCycle, core.SeverityError))
		}
	}

	a.logger.Debug("escalation analysis complete", slog.Int("signals", len(signals)))
	return signals
}

func (a *Analyzer) signal(module string, metric core.SignalMetric, value, threshold int, suggestion string, sev core.Severity) Signal {
	return Signal{
		Module:     module,
		Metric:     metric,
		Value:      value,
		Threshold:  threshold,
		Suggestion: suggestion,
		Severity:   sev,
		Blocking:   a.ruleSet.IsPromoted(metric),
	}
}

// Describe returns a one-line human description of the signal.
func (s Signal) Describe() string {
	if s.Metric == core.MetricCycle {
		return fmt.Sprintf("module %s is part of a dependency cycle of %d nodes; %s", s.Module, s.Value, s.Suggestion)
	}
	return fmt.Sprintf("module %s has %d %s (threshold %d); %s",
		s.Module, s.Value, strings.ReplaceAll(string(s.Metric), "_", " "), s.Threshold, s.Suggestion)
}
