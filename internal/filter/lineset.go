package filter

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"
)

// Range is an inclusive range of line numbers. A Range with Start > End is
// empty and is ignored by LineSet.Insert.
type Range struct {
	Start uint32
	End   uint32
}

// HalfOpen returns the range [lo, hi).
func HalfOpen(lo, hi uint32) Range {
	if hi == 0 {
		// Invalid on purpose so that Insert drops it.
		return Range{Start: 1, End: 0}
	}
	return Range{Start: lo, End: hi - 1}
}

// From returns the range [lo, ∞).
func From(lo uint32) Range {
	return Range{Start: lo, End: math.MaxUint32}
}

// To returns the range [0, hi).
func To(hi uint32) Range {
	return HalfOpen(0, hi)
}

// Full returns the range covering every line.
func Full() Range {
	return Range{Start: 0, End: math.MaxUint32}
}

// Line returns the range holding only line n.
func Line(n uint32) Range {
	return Range{Start: n, End: n}
}

// Valid reports whether r holds at least one line.
func (r Range) Valid() bool {
	return r.Start <= r.End
}

func (r Range) String() string {
	if r.End == math.MaxUint32 {
		return fmt.Sprintf("%d-", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// join merges two ranges that overlap or touch.
func join(a, b Range) (Range, bool) {
	if saturatingInc(a.End) < b.Start || saturatingInc(b.End) < a.Start {
		return Range{}, false
	}
	return Range{Start: min(a.Start, b.Start), End: max(a.End, b.End)}, true
}

func saturatingInc(n uint32) uint32 {
	if n == math.MaxUint32 {
		return n
	}
	return n + 1
}

// LineSet is a set of lines stored as sorted, disjoint, non-adjacent ranges.
// The zero value is an empty set.
type LineSet struct {
	ranges []Range
}

// NewLineSet returns a set holding the given ranges.
func NewLineSet(ranges ...Range) *LineSet {
	s := &LineSet{}
	s.Insert(ranges...)
	return s
}

// Insert adds ranges to the set. Invalid ranges are dropped.
func (s *LineSet) Insert(ranges ...Range) {
	changed := false
	for _, r := range ranges {
		if r.Valid() {
			s.ranges = append(s.ranges, r)
			changed = true
		}
	}
	if changed {
		s.normalize()
	}
}

func (s *LineSet) normalize() {
	slices.SortFunc(s.ranges, func(a, b Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	out := s.ranges[:0]
	for _, r := range s.ranges {
		if n := len(out); n > 0 {
			if joined, ok := join(out[n-1], r); ok {
				out[n-1] = joined
				continue
			}
		}
		out = append(out, r)
	}
	s.ranges = slices.Clip(out)
}

// Contains reports whether any line of q is in the set.
func (s *LineSet) Contains(q Range) bool {
	if s == nil || !q.Valid() {
		return false
	}
	// First range starting after q.End; its predecessor is the floor.
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Start > q.End
	})
	if i == 0 {
		return false
	}
	return s.ranges[i-1].End >= q.Start
}

// ContainsLine reports whether line n is in the set.
func (s *LineSet) ContainsLine(n uint32) bool {
	return s.Contains(Line(n))
}

// Ranges returns a copy of the normalized ranges.
func (s *LineSet) Ranges() []Range {
	if s == nil {
		return nil
	}
	return slices.Clone(s.ranges)
}

// Len returns the number of disjoint ranges.
func (s *LineSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ranges)
}
