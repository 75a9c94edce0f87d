package app

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/lcovkit/internal/coverage"
)

// NewStatsCommand creates the "stats" subcommand.
func NewStatsCommand(opts *globalOptions) *cobra.Command {
	var (
		output string
		format string
		lossy  bool
	)

	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Print found/hit statistics of tracefiles.",
		Long: `Merge the given tracefiles and print line, function and branch
statistics per section and in total.

Examples:
  # YAML summary (default)
  lcovkit stats coverage.info

  # Markdown table for a pull request comment
  lcovkit stats --format markdown unit.info integration.info`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = opts.cfg.Stats.Format
			}
			if !cmd.Flags().Changed("lossy") {
				lossy = opts.cfg.Merge.Lossy
			}
			f, err := coverage.ParseFormat(format)
			if err != nil {
				return err
			}

			merged, err := loadMerged(cmd, args, max(opts.cfg.Merge.Jobs, 1), lossy)
			if err != nil {
				return err
			}
			stats := coverage.Compute(merged)
			return writeOutput(cmd, output, func(w io.Writer) error {
				return stats.Encode(w, f)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json, markdown)")
	cmd.Flags().BoolVar(&lossy, "lossy", false, "Resolve conflicting start lines and checksums instead of failing")

	return cmd
}
