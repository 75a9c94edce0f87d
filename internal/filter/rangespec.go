package filter

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidRangeSpec is returned by ParseRangeSpec for malformed input.
var ErrInvalidRangeSpec = errors.New("invalid line range")

// ParseRangeSpec parses a comma separated list of inclusive line ranges:
// "7" (one line), "3-4", "10-" (to end of file) and "-2" (from line 0).
func ParseRangeSpec(spec string) ([]Range, error) {
	var ranges []Range
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseRange(part)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", part)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseRange(s string) (Range, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := parseLine(lo)
		if err != nil {
			return Range{}, err
		}
		return Line(n), nil
	}
	if lo == "" && hi == "" {
		return Range{}, ErrInvalidRangeSpec
	}

	r := Full()
	if lo != "" {
		n, err := parseLine(lo)
		if err != nil {
			return Range{}, err
		}
		r.Start = n
	}
	if hi != "" {
		n, err := parseLine(hi)
		if err != nil {
			return Range{}, err
		}
		r.End = n
	}
	if !r.Valid() {
		return Range{}, errors.Wrapf(ErrInvalidRangeSpec, "start %d after end %d", r.Start, r.End)
	}
	return r, nil
}

func parseLine(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidRangeSpec, "bad line number %q", s)
	}
	return uint32(n), nil
}
