// Package report merges rule violations, escalation signals and extraction
// warnings into one ordered report and decides pass or fail.
package report

import (
	"errors"
	"slices"
	"strings"

	"github.com/leapstack-labs/archlint/internal/escalation"
	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
)

// Exit codes.
const (
	ExitPassed = 0
	ExitFailed = 1
	ExitFatal  = 2
)

// Violation is one rule violation entry.
type Violation struct {
	RuleID     string        `json:"ruleId"`
	Severity   core.Severity `json:"severity"`
	Module     string        `json:"module"`
	Subject    string        `json:"classOrNamespace"`
	Message    string        `json:"message"`
	Location   string        `json:"location,omitempty"`
	Edges      []string      `json:"edges,omitempty"`
	Suppressed bool          `json:"suppressed"`
}

// Fatal describes why the run aborted before analysis.
type Fatal struct {
	Kind    string `json:"kind"` // "extraction" or "configuration"
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

// Stats summarise the analysed model.
type Stats struct {
	Sources           int `json:"sources"`
	Declarations      int `json:"declarations"`
	Classes           int `json:"classes"`
	Modules           int `json:"modules"`
	GraphNodes        int `json:"graphNodes"`
	GraphEdges        int `json:"graphEdges"`
	DroppedReferences int `json:"droppedReferences"`
}

// Report is the outcome of one run. It holds no timestamps or run ids so
// identical input renders identically.
type Report struct {
	Passed          bool                          `json:"passed"`
	Violations      []Violation                   `json:"violations"`
	Escalations     []escalation.Signal           `json:"escalations"`
	SuppressedCount int                           `json:"suppressedCount"`
	Warnings        []extract.PartialParseWarning `json:"warnings"`
	Stats           Stats                         `json:"stats"`
	Fatal           *Fatal                        `json:"fatal,omitempty"`
}

// Input is everything the aggregator merges.
type Input struct {
	Diagnostics []lint.Diagnostic
	Signals     []escalation.Signal
	Warnings    []extract.PartialParseWarning
	Stats       Stats
}

// Options control the pass/fail gate.
type Options struct {
	// FailOnWarning also fails on non-suppressed warning violations.
	FailOnWarning bool
}

// Aggregate builds the ordered report.
func Aggregate(in Input, opts Options) *Report {
	r := &Report{
		Violations:  make([]Violation, 0, len(in.Diagnostics)),
		Escalations: make([]escalation.Signal, len(in.Signals)),
		Warnings:    make([]extract.PartialParseWarning, len(in.Warnings)),
		Stats:       in.Stats,
	}

	for _, d := range in.Diagnostics {
		r.Violations = append(r.Violations, Violation{
			RuleID:     d.RuleID,
			Severity:   d.Severity,
			Module:     d.Module,
			Subject:    d.Subject,
			Message:    d.Message,
			Location:   d.Location,
			Edges:      d.Edges,
			Suppressed: d.Suppressed,
		})
		if d.Suppressed {
			r.SuppressedCount++
		}
	}
	slices.SortStableFunc(r.Violations, compareViolations)

	copy(r.Escalations, in.Signals)
	slices.SortStableFunc(r.Escalations, compareSignals)

	copy(r.Warnings, in.Warnings)
	slices.SortStableFunc(r.Warnings, func(a, b extract.PartialParseWarning) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Declaration, b.Declaration)
	})

	r.Passed = r.gate(opts)
	return r
}

func (r *Report) gate(opts Options) bool {
	for _, v := range r.Violations {
		if v.Suppressed {
			continue
		}
		if v.Severity == core.SeverityError || (opts.FailOnWarning && v.Severity == core.SeverityWarning) {
			return false
		}
	}
	for _, s := range r.Escalations {
		if s.Blocking {
			return false
		}
	}
	return true
}

// FatalReport builds the report of a run that aborted. Warnings collected
// before the abort are kept.
func FatalReport(err error, warnings []extract.PartialParseWarning) *Report {
	f := &Fatal{Kind: "extraction", Message: err.Error()}

	var fatal *extract.FatalExtractionError
	var cfgErr *core.ConfigurationError
	switch {
	case errors.As(err, &fatal):
		f.Source = fatal.Source
		f.Message = fatal.Err.Error()
	case errors.As(err, &cfgErr):
		f.Kind = "configuration"
	}

	r := Aggregate(Input{Warnings: warnings}, Options{})
	r.Passed = false
	r.Fatal = f
	return r
}

// ExitCode maps the report to the process exit code.
func (r *Report) ExitCode() int {
	switch {
	case r.Fatal != nil:
		return ExitFatal
	case r.Passed:
		return ExitPassed
	default:
		return ExitFailed
	}
}

// Counts returns the number of active errors and warnings.
func (r *Report) Counts() (errs, warns int) {
	for _, v := range r.Violations {
		if v.Suppressed {
			continue
		}
		if v.Severity == core.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

// compareViolations orders by severity, module, location, rule id,
// subject and finally message.
func compareViolations(a, b Violation) int {
	if a.Severity != b.Severity {
		return int(a.Severity) - int(b.Severity)
	}
	if c := strings.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	if c := strings.Compare(a.Location, b.Location); c != 0 {
		return c
	}
	if c := lint.CompareRuleIDs(a.RuleID, b.RuleID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	return strings.Compare(a.Message, b.Message)
}

func compareSignals(a, b escalation.Signal) int {
	if a.Severity != b.Severity {
		return int(a.Severity) - int(b.Severity)
	}
	if c := strings.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	return slices.Index(core.KnownSignalMetrics, a.Metric) - slices.Index(core.KnownSignalMetrics, b.Metric)
}
