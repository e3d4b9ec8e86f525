package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/archlint/internal/cli/config"
	"github.com/leapstack-labs/archlint/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext loads configuration for a command. target is the path
// the config file search starts from.
func NewCommandContext(cmd *cobra.Command, target string) (*CommandContext, error) {
	var cfgFile string
	if f := cmd.Flags().Lookup("config"); f != nil {
		cfgFile = f.Value.String()
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cfgFile,
		TargetPath: target,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	logger := config.GetLogger(cmd.Context())
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", "path", cfg.ConfigFile)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Format)),
	}, nil
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

// Error implements error.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.Err }
