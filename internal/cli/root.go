// Package cli provides the command-line interface for archlint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archlint/internal/cli/commands"
	"github.com/leapstack-labs/archlint/internal/cli/config"
	"github.com/leapstack-labs/archlint/internal/report"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "archlint",
		Short: "archlint - Architecture conformance checker",
		Long: `archlint verifies that a codebase follows the package-structure rulebook:
bounded-context modules, use-case namespaces, a config namespace and a
common namespace, with rules R1-R8 over the dependency graph.

It reads Java sources, declaration files and Go modules, and prints one
report with violations, escalation signals and parse warnings.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip logger setup for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			if os.Getenv(config.EnvPrefix+"VERBOSE") == "true" {
				verbose = true
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.LoggerKey(), NewLogger(cmd.ErrOrStderr(), verbose))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Architecture conformance checker
`)

	// Global persistent flags
	rootCmd.PersistentFlags().String("config", "", "config file (default: archlint.yaml searched upward from <path>)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewLogger creates the structured logger used by every command.
// Verbose output includes debug records such as state transitions.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	code := ExitCode(err)
	if err != nil {
		var exitErr *commands.ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return code
}

// ExitCode maps a command error to the process exit code: 0 on success,
// the carried code for an ExitError, and 2 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return report.ExitPassed
	}
	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return report.ExitFatal
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for archlint.

To load completions:

Bash:
  $ source <(archlint completion bash)

Zsh:
  $ archlint completion zsh > "${fpath[1]}/_archlint"

Fish:
  $ archlint completion fish | source

PowerShell:
  PS> archlint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
