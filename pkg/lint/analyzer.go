package lint

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Analyzer runs the registered rules against a context.
type Analyzer struct {
	config *Config
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer with optional configuration.
// If logger is nil, a discard logger is used.
func NewAnalyzer(config *Config, logger *slog.Logger) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{config: config, logger: logger}
}

// Rules returns the enabled rules in rule ID order.
func (a *Analyzer) Rules() []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if !a.config.IsDisabled(rule.ID) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Analyze evaluates every enabled rule in parallel. Each rule writes only to
// its own result slot; the slots are merged in rule ID order afterwards, so
// the output never depends on scheduling. Severity overrides and
// suppressions are applied during the merge.
func (a *Analyzer) Analyze(ctx context.Context, lctx *Context) ([]Diagnostic, error) {
	if lctx == nil {
		return nil, nil
	}

	rules := a.Rules()
	results := make([][]Diagnostic, len(rules))

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = rule.Check(lctx)
			a.logger.Debug("rule evaluated",
				slog.String("rule", rule.ID),
				slog.Int("diagnostics", len(results[i])),
				slog.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diagnostics []Diagnostic
	for i, rule := range rules {
		diags := results[i]
		sort.SliceStable(diags, func(x, y int) bool { return diagnosticLess(diags[x], diags[y]) })
		for _, d := range diags {
			d.RuleID = rule.ID
			d.Severity = a.config.GetSeverity(rule.ID, rule.Severity)
			d.Suppressed = a.config.IsSuppressed(rule.ID) || d.suppressedByMarkers()
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics, nil
}

func diagnosticLess(a, b Diagnostic) bool {
	if a.Module != b.Module {
		return a.Module < b.Module
	}
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	if a.Subject != b.Subject {
		return a.Subject < b.Subject
	}
	return a.Message < b.Message
}
