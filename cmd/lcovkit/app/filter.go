package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/lcovkit/internal/exec"
	"github.com/zjy-dev/lcovkit/internal/filter"
	"github.com/zjy-dev/lcovkit/internal/logger"
)

// NewFilterCommand creates the "filter" subcommand.
func NewFilterCommand(opts *globalOptions) *cobra.Command {
	var (
		output   string
		diffPath string
		gitRev   string
		gcovrRep string
		lines    []string
		strip    int
		root     string
		lossy    bool
	)

	cmd := &cobra.Command{
		Use:   "filter FILE...",
		Short: "Keep only the coverage of selected lines.",
		Long: `Merge the given tracefiles and keep only the functions, branches and
lines that fall into the selected line ranges.

Line ranges come from a unified diff (--diff, the lines each hunk adds,
or --git REV to run "git diff REV" directly), the lines a gcovr JSON
report lists as uncovered (--gcovr, file names joined under --root) and/or
explicit --lines PATH:SPEC flags. Ranges from several sources are combined. SPEC is a comma separated list
of 1-based inclusive ranges such as "3-4,10-,7". Sections of files that
are not selected are dropped.

Examples:
  # Coverage of the lines changed by the last commit
  git diff HEAD~1 | lcovkit filter --diff - --strip 1 coverage.info

  # Coverage of uncommitted work, with tracefile paths under /src
  lcovkit filter --git HEAD --root /src coverage.info

  # Tracefile entries for the lines gcovr still reports as uncovered
  lcovkit filter --gcovr gcovr.json --root /root/fuzz-coverage coverage.info

  # Coverage of two explicit ranges of one file
  lcovkit filter --lines src/foo.c:10-20,42 coverage.info`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strip") {
				strip = opts.cfg.Filter.Strip
			}
			if !cmd.Flags().Changed("root") {
				root = opts.cfg.Filter.Root
			}
			if !cmd.Flags().Changed("lossy") {
				lossy = opts.cfg.Merge.Lossy
			}
			if diffPath == "" && gitRev == "" && gcovrRep == "" && len(lines) == 0 {
				return fmt.Errorf("one of --diff, --git, --gcovr or --lines is required")
			}

			if diffPath == stdio {
				if err := checkStdin(args, 1); err != nil {
					return err
				}
			}

			data, err := readDiff(cmd, opts, diffPath, gitRev)
			if err != nil {
				return err
			}
			f, err := buildFilter(data, filter.DiffOptions{Strip: strip, Root: root}, lines)
			if err != nil {
				return err
			}
			if gcovrRep != "" {
				uncovered, err := filter.FromGcovrReport(gcovrRep, root)
				if err != nil {
					return err
				}
				logger.Debugf("gcovr report selects %d files", len(uncovered.Paths()))
				f.Union(uncovered)
			}

			merged, err := loadMerged(cmd, args, max(opts.cfg.Merge.Jobs, 1), lossy)
			if err != nil {
				return err
			}
			before := merged.Len()
			f.Apply(merged)
			logger.Infof("filter kept %d of %d sections", merged.Len(), before)

			return writeReport(cmd, output, merged)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output tracefile (default: stdout)")
	cmd.Flags().StringVar(&diffPath, "diff", "", `Unified diff selecting the kept lines ("-" for stdin)`)
	cmd.Flags().StringVar(&gitRev, "git", "", "Keep the lines changed since this git revision")
	cmd.Flags().StringVar(&gcovrRep, "gcovr", "", "Keep the lines a gcovr JSON report lists as uncovered")
	cmd.Flags().StringArrayVar(&lines, "lines", nil, "Kept lines as PATH:SPEC (repeatable)")
	cmd.Flags().IntVar(&strip, "strip", 0, "Leading path components stripped from diff file names")
	cmd.Flags().StringVar(&root, "root", "", "Directory prepended to diff and gcovr file names")
	cmd.Flags().BoolVar(&lossy, "lossy", false, "Resolve conflicting start lines and checksums instead of failing")
	cmd.MarkFlagsMutuallyExclusive("diff", "git")

	return cmd
}

// readDiff returns the unified diff named by --diff or produced by
// --git, or nil when neither is set.
func readDiff(cmd *cobra.Command, opts *globalOptions, diffPath, gitRev string) ([]byte, error) {
	switch {
	case gitRev != "":
		logger.Debugf("running git diff %s", gitRev)
		return exec.GitDiff(cmd.Context(), opts.executor, gitRev)
	case diffPath == stdio:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read diff: %w", err)
		}
		return data, nil
	case diffPath != "":
		data, err := os.ReadFile(diffPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read diff: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

func buildFilter(diff []byte, diffOpts filter.DiffOptions, lines []string) (*filter.Filter, error) {
	f := filter.New()
	if diff != nil {
		var err error
		f, err = filter.FromUnifiedDiff(diff, diffOpts)
		if err != nil {
			return nil, err
		}
		logger.Debugf("diff selects %d files", len(f.Paths()))
	}

	for _, spec := range lines {
		i := strings.LastIndex(spec, ":")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --lines value %q, want PATH:SPEC", spec)
		}
		ranges, err := filter.ParseRangeSpec(spec[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid --lines value %q: %w", spec, err)
		}
		f.Insert(spec[:i], ranges...)
	}
	return f, nil
}
