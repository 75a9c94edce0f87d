package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/lcovkit/internal/config"
	"github.com/zjy-dev/lcovkit/internal/exec"
	"github.com/zjy-dev/lcovkit/internal/logger"
)

// globalOptions holds the persistent flags and the configuration loaded
// from them before any subcommand runs.
type globalOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	executor   exec.Executor
}

func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)
	logger.SetColorEnable(cfg.Log.Color)

	o.cfg = cfg
	return nil
}

// NewLcovkitCommand creates the root command for the lcovkit tool.
func NewLcovkitCommand() *cobra.Command {
	return newRootCommand(&globalOptions{executor: exec.NewCommandExecutor()})
}

func newRootCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lcovkit",
		Short: "Merge, filter and summarize LCOV tracefiles.",
		Long: `lcovkit is a command-line tool for LCOV tracefiles (.info files).

It merges tracefiles from several test runs into one canonical report,
narrows a report down to the lines touched by a change, and prints
found/hit statistics.

Configuration is read from lcovkit.yaml (current directory or configs/),
a .env file and LCOVKIT_* environment variables. Command line flags
override the configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the configuration file (default: search for lcovkit.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}
