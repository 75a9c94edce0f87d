package app

import (
	"github.com/spf13/cobra"
)

// NewMergeCommand creates the "merge" subcommand.
func NewMergeCommand(opts *globalOptions) *cobra.Command {
	var (
		output string
		lossy  bool
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge tracefiles into one canonical tracefile.",
		Long: `Merge one or more LCOV tracefiles into a single tracefile.

Sections with the same test name and source file are combined: execution
counts are summed and found/hit summaries are recomputed. Sections are
written sorted by test name and source file.

A function reported with two different start lines, or a line reported
with two different checksums, aborts the merge unless --lossy is given,
in which case the later input wins.

Use "-" to read a tracefile from stdin.

Examples:
  # Merge two tracefiles to stdout
  lcovkit merge unit.info integration.info

  # Merge into a file, tolerating conflicting inputs
  lcovkit merge --lossy -o total.info run1.info run2.info run3.info`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lossy") {
				lossy = opts.cfg.Merge.Lossy
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = opts.cfg.Merge.Jobs
			}

			merged, err := loadMerged(cmd, args, max(jobs, 1), lossy)
			if err != nil {
				return err
			}
			return writeReport(cmd, output, merged)
		},
	}

	// Flags (these are placeholder defaults, actual defaults come from config)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output tracefile (default: stdout)")
	cmd.Flags().BoolVar(&lossy, "lossy", false, "Resolve conflicting start lines and checksums instead of failing")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of input files decoded concurrently")

	return cmd
}
