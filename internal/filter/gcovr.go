package filter

import (
	"math"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/zjy-dev/gcovr-json-util/v2/pkg/gcovr"
)

// FromGcovrReport reads a gcovr JSON report and builds a filter keeping the
// lines it reports with a zero count, see FromGcovrUncovered.
func FromGcovrReport(path, sourceParentPath string) (*Filter, error) {
	parsed, err := gcovr.ParseReport(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load gcovr report")
	}
	uncovered, err := gcovr.FindUncoveredLines(parsed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find uncovered lines")
	}
	return FromGcovrUncovered(uncovered, sourceParentPath), nil
}

// FromGcovrUncovered builds a filter keeping only the lines a gcovr
// uncovered report lists, so a tracefile can be narrowed to code no test
// reaches yet.
//
// sourceParentPath is prepended to the report's relative file paths
// (e.g. "/root/fuzz-coverage" for a GCC source tree).
func FromGcovrUncovered(report *gcovr.UncoveredReport, sourceParentPath string) *Filter {
	f := New()
	if report == nil {
		return f
	}

	for _, file := range report.Files {
		path := file.FilePath
		if sourceParentPath != "" {
			path = filepath.Join(sourceParentPath, file.FilePath)
		}
		f.Insert(path)
		for _, fn := range file.UncoveredFunctions {
			f.Insert(path, lineRanges(fn.UncoveredLineNumbers)...)
		}
	}
	return f
}

// lineRanges converts 1-based line numbers to ranges, dropping values that
// cannot be line numbers.
func lineRanges(lines []int) []Range {
	ranges := make([]Range, 0, len(lines))
	for _, n := range lines {
		if n < 0 || int64(n) > math.MaxUint32 {
			continue
		}
		ranges = append(ranges, Line(uint32(n)))
	}
	return ranges
}
