package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjy-dev/lcovkit/internal/logger"
	"github.com/zjy-dev/lcovkit/internal/record"
	"github.com/zjy-dev/lcovkit/internal/report"
)

// stdio is the path naming stdin for inputs and stdout for outputs.
const stdio = "-"

// readReports decodes every input into its own report, at most jobs at a
// time. The result has the same order as paths.
func readReports(ctx context.Context, cmd *cobra.Command, paths []string, jobs int, lossy bool) ([]*report.Report, error) {
	reports := make([]*report.Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := readReport(cmd, path, lossy)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			logger.Debugf("read %d sections from %s", r.Len(), path)
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func readReport(cmd *cobra.Command, path string, lossy bool) (*report.Report, error) {
	var in io.Reader = cmd.InOrStdin()
	if path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	r := report.New()
	dec := record.NewDecoder(in)
	if lossy {
		return r, r.MergeLossy(dec)
	}
	return r, r.Merge(dec)
}

// mergeReports folds reports into one, in order, so the first conflict
// reported does not depend on decoding order.
func mergeReports(reports []*report.Report, paths []string, lossy bool) (*report.Report, error) {
	merged := report.New()
	for i, r := range reports {
		if lossy {
			merged.MergeReportLossy(r)
			continue
		}
		if err := merged.MergeReport(r); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", paths[i], err)
		}
	}
	return merged, nil
}

// errStdinReused is returned when stdin is named as more than one input.
var errStdinReused = errors.New(`stdin ("-") can only be read once`)

// checkStdin rejects inputs that would read stdin more than once. extra
// counts stdin uses outside paths, such as --diff -.
func checkStdin(paths []string, extra int) error {
	if extra+countStdin(paths) > 1 {
		return errStdinReused
	}
	return nil
}

func countStdin(paths []string) int {
	n := 0
	for _, path := range paths {
		if path == stdio {
			n++
		}
	}
	return n
}

// loadMerged reads and merges all inputs.
func loadMerged(cmd *cobra.Command, paths []string, jobs int, lossy bool) (*report.Report, error) {
	if err := checkStdin(paths, 0); err != nil {
		return nil, err
	}
	reports, err := readReports(cmd.Context(), cmd, paths, jobs, lossy)
	if err != nil {
		return nil, err
	}
	merged, err := mergeReports(reports, paths, lossy)
	if err != nil {
		return nil, err
	}
	logger.Infof("merged %d files into %d sections", len(paths), merged.Len())
	return merged, nil
}

// writeOutput runs write against the named output file, or stdout.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == stdio {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	logger.Infof("wrote %s", path)
	return nil
}

func writeReport(cmd *cobra.Command, path string, r *report.Report) error {
	return writeOutput(cmd, path, func(w io.Writer) error {
		_, err := r.WriteTo(w)
		return err
	})
}
