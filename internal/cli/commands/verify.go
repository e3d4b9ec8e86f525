package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archlint/internal/cli/output"
	"github.com/leapstack-labs/archlint/internal/frontend"
	"github.com/leapstack-labs/archlint/internal/pipeline"
	"github.com/leapstack-labs/archlint/internal/report"
	"github.com/leapstack-labs/archlint/internal/watch"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Check a codebase against the package-structure rules",
		Long: `Verify extracts the namespace and class model from the sources under
<path>, builds the dependency graph, evaluates rules R1-R8, computes the
escalation signals and prints one report.

Inputs:
  - Java sources (*.java)
  - Declaration files (*.decl.json, *.decl.yaml)
  - A Go module when <path> holds go.mod (//arch: directives)

Exit codes:
  0  passed
  1  non-suppressed errors, blocking signals, or warnings with --fail-on-warning
  2  fatal extraction or configuration error`,
		Example: `  # Verify a project
  archlint verify ./service

  # Machine-readable report
  archlint verify ./service --format json

  # Treat warnings as failures
  archlint verify ./service --fail-on-warning

  # Run only the isolation rules
  archlint verify ./service --rules R1,R2,R3

  # Re-verify on every change
  archlint verify ./service --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0])
		},
	}

	cmd.Flags().Bool("fail-on-warning", false, "Fail when non-suppressed warnings remain")
	cmd.Flags().StringP("format", "f", "", "Output format: auto, text, json")
	cmd.Flags().String("rules", "", "Rule selection, e.g. R1,R2 or -R3,-R7")
	cmd.Flags().String("root-namespace", "", "Namespace prefix stripped before kind inference")
	cmd.Flags().StringSlice("include", nil, "Glob patterns of inputs to include")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns of paths to skip")
	cmd.Flags().Bool("no-go", false, "Ignore go.mod at the root")
	cmd.Flags().BoolP("watch", "w", false, "Re-run the verification when files change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runVerify(cmd *cobra.Command, path string) error {
	cmdCtx, err := NewCommandContext(cmd, path)
	if err != nil {
		return &ExitError{Code: report.ExitFatal, Err: err}
	}
	cfg := cmdCtx.Cfg

	p, err := pipeline.New(pipeline.Config{
		RuleSet: cfg.RuleSet(),
		Rules:   cfg.Rules,
		Report:  report.Options{FailOnWarning: cfg.FailOnWarning},
		Discover: frontend.Options{
			Include: cfg.Include,
			Exclude: cfg.Exclude,
			NoGo:    cfg.NoGo,
		},
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return &ExitError{Code: report.ExitFatal, Err: err}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Watch {
		return watchVerify(ctx, cmdCtx, p, path)
	}

	rep, err := p.VerifyPath(ctx, path)
	if err != nil {
		return &ExitError{Code: report.ExitFatal, Err: err}
	}
	if err := writeReport(cmdCtx.Renderer, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if code := rep.ExitCode(); code != report.ExitPassed {
		// The report already explains the failure.
		return &ExitError{Code: code}
	}
	return nil
}

func watchVerify(ctx context.Context, cmdCtx *CommandContext, p *pipeline.Pipeline, path string) error {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	r := cmdCtx.Renderer
	return watch.Run(ctx, dir, watch.Options{
		Filter: frontend.Relevant,
		Logger: cmdCtx.Logger,
	}, func(ctx context.Context) error {
		rep, err := p.VerifyPath(ctx, path)
		if err != nil {
			return err
		}
		if r.EffectiveMode() != output.ModeJSON {
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("--- %s", path)))
		}
		return writeReport(r, rep)
	})
}

func writeReport(r *output.Renderer, rep *report.Report) error {
	if r.EffectiveMode() == output.ModeJSON {
		return rep.WriteJSON(r.Writer())
	}
	return rep.WriteText(r.Writer(), r.Palette())
}
