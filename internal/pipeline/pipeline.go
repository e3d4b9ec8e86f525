// Package pipeline drives one verification run through its stages:
// extraction, graph building, rule evaluation, escalation and aggregation.
//
// A run is a linear state machine:
//
//	Idle -> Extracting -> {Extracted | FatalFailed}
//	Extracted -> GraphBuilding -> Built
//	Built -> RuleEvaluating -> Evaluated
//	Evaluated -> Aggregating -> Done
//
// FatalFailed goes straight to Done with a fatal report. Nothing survives
// between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/archlint/internal/escalation"
	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/internal/frontend"
	"github.com/leapstack-labs/archlint/internal/report"
	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/depgraph"
	"github.com/leapstack-labs/archlint/pkg/lint"
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules" // register R1-R8
)

// State is a pipeline stage.
type State int

// Pipeline states.
const (
	Idle State = iota
	Extracting
	Extracted
	FatalFailed
	GraphBuilding
	Built
	RuleEvaluating
	Evaluated
	Aggregating
	Done
)

var stateNames = [...]string{
	Idle:           "Idle",
	Extracting:     "Extracting",
	Extracted:      "Extracted",
	FatalFailed:    "FatalFailed",
	GraphBuilding:  "GraphBuilding",
	Built:          "Built",
	RuleEvaluating: "RuleEvaluating",
	Evaluated:      "Evaluated",
	Aggregating:    "Aggregating",
	Done:           "Done",
}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// transitions lists the legal successor of each state.
var transitions = map[State][]State{
	Idle:           {Extracting},
	Extracting:     {Extracted, FatalFailed},
	Extracted:      {GraphBuilding},
	FatalFailed:    {Done},
	GraphBuilding:  {Built},
	Built:          {RuleEvaluating},
	RuleEvaluating: {Evaluated},
	Evaluated:      {Aggregating},
	Aggregating:    {Done},
}

// Config configures a pipeline.
type Config struct {
	RuleSet *core.RuleSetConfig

	// Rules selects rules as in --rules ("R1,R2" or "-R3"). Empty keeps
	// the rule set's own selection.
	Rules string

	Report   report.Options
	Discover frontend.Options
	Logger   *slog.Logger

	// OnTransition is called on every state change.
	OnTransition func(from, to State)
}

// Pipeline runs verifications. It is safe to reuse: each run builds
// everything from scratch.
type Pipeline struct {
	ruleSet      *core.RuleSetConfig
	lintConfig   *lint.Config
	reportOpts   report.Options
	discoverOpts frontend.Options
	logger       *slog.Logger
	onTransition func(from, to State)
}

// New validates the configuration and creates a pipeline. Configuration
// problems are returned as *core.ConfigurationError.
func New(cfg Config) (*Pipeline, error) {
	if cfg.RuleSet == nil {
		cfg.RuleSet = core.DefaultRuleSetConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if err := lint.ValidateRuleSet(cfg.RuleSet); err != nil {
		return nil, err
	}
	lintCfg, err := lint.ConfigFromRuleSet(cfg.RuleSet, cfg.Rules)
	if err != nil {
		return nil, err
	}
	if err := errors.Join(frontend.ValidatePatterns(cfg.Discover.Include), frontend.ValidatePatterns(cfg.Discover.Exclude)); err != nil {
		return nil, &core.ConfigurationError{Problems: []string{err.Error()}}
	}
	return &Pipeline{
		ruleSet:      cfg.RuleSet,
		lintConfig:   lintCfg,
		reportOpts:   cfg.Report,
		discoverOpts: cfg.Discover,
		logger:       cfg.Logger,
		onTransition: cfg.OnTransition,
	}, nil
}

// run tracks the state of a single verification.
type run struct {
	p      *Pipeline
	state  State
	logger *slog.Logger
}

func (r *run) to(next State) {
	legal := false
	for _, s := range transitions[r.state] {
		if s == next {
			legal = true
			break
		}
	}
	if !legal {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", r.state, next))
	}
	r.logger.Debug("state transition", "from", r.state.String(), "to", next.String())
	if r.p.onTransition != nil {
		r.p.onTransition(r.state, next)
	}
	r.state = next
}

// VerifyPath discovers the inputs under path and verifies them. A path that
// cannot be read yields a fatal report.
func (p *Pipeline) VerifyPath(ctx context.Context, path string) (*report.Report, error) {
	opts := p.discoverOpts
	opts.Logger = p.logger
	sources, err := frontend.Discover(path, opts)
	if err != nil {
		return p.verify(ctx, nil, err)
	}
	return p.verify(ctx, sources, nil)
}

// Verify runs every stage over the given sources. The returned error is
// non-nil only when the context is cancelled or a rule fails unexpectedly;
// fatal extraction problems are part of the report.
func (p *Pipeline) Verify(ctx context.Context, sources []extract.Source) (*report.Report, error) {
	return p.verify(ctx, sources, nil)
}

func (p *Pipeline) verify(ctx context.Context, sources []extract.Source, discoverErr error) (*report.Report, error) {
	start := time.Now()
	r := &run{p: p, state: Idle, logger: p.logger.With("run_id", uuid.NewString())}
	r.logger.Info("starting verification", "sources", len(sources))

	r.to(Extracting)
	res, err := p.extract(ctx, r.logger, sources, discoverErr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.to(FatalFailed)
		r.logger.Error("extraction failed", "error", err)
		var warnings []extract.PartialParseWarning
		if res != nil {
			warnings = res.Warnings
		}
		rep := report.FatalReport(err, warnings)
		r.to(Done)
		return rep, nil
	}
	r.to(Extracted)
	r.logger.Debug("extracted", "classes", len(res.Model.Classes()), "warnings", len(res.Warnings))

	r.to(GraphBuilding)
	graph := depgraph.Build(res.Model)
	r.to(Built)
	modules := graph.Condensation()
	r.logger.Debug("graph built",
		"edges", len(graph.Edges()),
		"module_nodes", modules.NodeCount(),
		"module_edges", modules.EdgeCount(),
		"cycles", len(graph.Cycles()))

	r.to(RuleEvaluating)
	analyzer := lint.NewAnalyzer(p.lintConfig, r.logger)
	diags, err := analyzer.Analyze(ctx, lint.NewContext(graph, p.ruleSet))
	if err != nil {
		return nil, fmt.Errorf("evaluate rules: %w", err)
	}
	escalations := escalation.NewAnalyzer(p.ruleSet, r.logger)
	if p.lintConfig.IsDisabled("R7") {
		escalations = escalations.WithoutCycles()
	}
	signals := escalations.Analyze(graph)
	r.to(Evaluated)

	r.to(Aggregating)
	rep := report.Aggregate(report.Input{
		Diagnostics: diags,
		Signals:     signals,
		Warnings:    res.Warnings,
		Stats: report.Stats{
			Sources:           len(sources),
			Declarations:      res.Declarations,
			Classes:           len(res.Model.Classes()),
			Modules:           len(res.Model.Modules()),
			GraphNodes:        modules.NodeCount(),
			GraphEdges:        modules.EdgeCount(),
			DroppedReferences: res.DroppedReferences,
		},
	}, p.reportOpts)
	r.to(Done)

	r.logger.Info("verification complete",
		"passed", rep.Passed,
		"violations", len(rep.Violations),
		"suppressed", rep.SuppressedCount,
		"signals", len(rep.Escalations),
		"duration_ms", time.Since(start).Milliseconds())
	return rep, nil
}

func (p *Pipeline) extract(ctx context.Context, logger *slog.Logger, sources []extract.Source, discoverErr error) (*extract.Result, error) {
	if discoverErr != nil {
		return nil, discoverErr
	}
	return extract.New(extract.Config{RuleSet: p.ruleSet, Logger: logger}).Extract(ctx, sources)
}
