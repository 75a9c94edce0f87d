package report

import (
	"cmp"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/zjy-dev/lcovkit/internal/record"
)

// Function is the coverage of one function, keyed by name in a Section.
// StartLine is nil when only FNDA records were seen for the name.
type Function struct {
	StartLine *uint32
	Count     uint64
}

// BranchKey identifies a branch within a Section.
type BranchKey struct {
	Line   uint32
	Block  uint32
	Branch uint32
}

func (k BranchKey) compare(o BranchKey) int {
	if c := cmp.Compare(k.Line, o.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Block, o.Block); c != 0 {
		return c
	}
	return cmp.Compare(k.Branch, o.Branch)
}

// Branch is the coverage of one branch. A nil Taken means the branch was
// never observed taken in any merged input, which differs from zero.
type Branch struct {
	Taken *uint64
}

// Line is the coverage of one source line.
type Line struct {
	Count    uint64
	Checksum *string
}

// Section holds the coverage of one (test name, source file) pair.
type Section struct {
	Functions map[string]Function
	Branches  map[BranchKey]Branch
	Lines     map[uint32]Line
}

// NewSection returns an empty Section.
func NewSection() *Section {
	return &Section{
		Functions: make(map[string]Function),
		Branches:  make(map[BranchKey]Branch),
		Lines:     make(map[uint32]Line),
	}
}

// IsEmpty reports whether the section has no coverage data at all.
func (s *Section) IsEmpty() bool {
	return len(s.Functions) == 0 && len(s.Branches) == 0 && len(s.Lines) == 0
}

// Clone returns a deep copy of s.
func (s *Section) Clone() *Section {
	c := NewSection()
	for name, fn := range s.Functions {
		c.Functions[name] = Function{StartLine: clonePtr(fn.StartLine), Count: fn.Count}
	}
	for key, br := range s.Branches {
		c.Branches[key] = Branch{Taken: clonePtr(br.Taken)}
	}
	for line, ln := range s.Lines {
		c.Lines[line] = Line{Count: ln.Count, Checksum: clonePtr(ln.Checksum)}
	}
	return c
}

// Merge adds other into s. Conflicting function start lines or line
// checksums are reported and leave s unchanged.
func (s *Section) Merge(other *Section) error {
	if err := s.checkConflicts(other); err != nil {
		return err
	}
	s.MergeLossy(other)
	return nil
}

// MergeLossy adds other into s. Conflicts are resolved in favour of other.
func (s *Section) MergeLossy(other *Section) {
	for name, fn := range other.Functions {
		s.mergeFunction(name, fn.StartLine, fn.Count)
	}
	for key, br := range other.Branches {
		s.mergeBranch(key, br.Taken)
	}
	for line, ln := range other.Lines {
		s.mergeLine(line, ln.Count, ln.Checksum)
	}
}

func (s *Section) checkConflicts(other *Section) error {
	for name, fn := range other.Functions {
		if err := s.checkFunction(name, fn.StartLine); err != nil {
			return err
		}
	}
	for line, ln := range other.Lines {
		if err := s.checkLine(line, ln.Checksum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Section) checkFunction(name string, start *uint32) error {
	cur, ok := s.Functions[name]
	if !ok || cur.StartLine == nil || start == nil || *cur.StartLine == *start {
		return nil
	}
	return errors.Wrapf(ErrUnmatchedFunctionLine, "function %q: %d != %d", name, *cur.StartLine, *start)
}

func (s *Section) checkLine(line uint32, checksum *string) error {
	cur, ok := s.Lines[line]
	if !ok || cur.Checksum == nil || checksum == nil || *cur.Checksum == *checksum {
		return nil
	}
	return errors.Wrapf(ErrUnmatchedChecksum, "line %d: %q != %q", line, *cur.Checksum, *checksum)
}

func (s *Section) mergeFunction(name string, start *uint32, count uint64) {
	fn := s.Functions[name]
	if start != nil {
		fn.StartLine = clonePtr(start)
	}
	fn.Count = saturatingAdd(fn.Count, count)
	s.Functions[name] = fn
}

func (s *Section) mergeBranch(key BranchKey, taken *uint64) {
	br, ok := s.Branches[key]
	if ok && taken == nil {
		return
	}
	if taken != nil {
		sum := saturatingAdd(deref(br.Taken), *taken)
		br.Taken = &sum
	}
	s.Branches[key] = br
}

func (s *Section) mergeLine(line uint32, count uint64, checksum *string) {
	ln := s.Lines[line]
	if checksum != nil {
		ln.Checksum = clonePtr(checksum)
	}
	ln.Count = saturatingAdd(ln.Count, count)
	s.Lines[line] = ln
}

// add folds one body record into s.
func (s *Section) add(rec record.Record, strict bool) error {
	switch rec := rec.(type) {
	case record.FunctionName:
		start := rec.StartLine
		if strict {
			if err := s.checkFunction(rec.Name, &start); err != nil {
				return err
			}
		}
		s.mergeFunction(rec.Name, &start, 0)
	case record.FunctionData:
		// FNDA without a preceding FN keeps a placeholder with no start line.
		s.mergeFunction(rec.Name, nil, rec.Count)
	case record.BranchData:
		s.mergeBranch(BranchKey{Line: rec.Line, Block: rec.Block, Branch: rec.Branch}, rec.Taken)
	case record.LineData:
		if strict {
			if err := s.checkLine(rec.Line, rec.Checksum); err != nil {
				return err
			}
		}
		s.mergeLine(rec.Line, rec.Count, rec.Checksum)
	case record.FunctionsFound, record.FunctionsHit,
		record.BranchesFound, record.BranchesHit,
		record.LinesFound, record.LinesHit:
		// Summaries are always recomputed on output.
	default:
		panic(errors.AssertionFailedf("record %s is not part of a section body", rec.Kind()))
	}
	return nil
}

// FunctionSpan is the line range a function is assumed to occupy.
type FunctionSpan struct {
	Name  string
	Start uint32
	End   uint32
}

// FunctionSpans returns the spans of all functions with a known start
// line, ordered by start line. A function ends one line before the next
// function starts; the last one extends to math.MaxUint32.
func (s *Section) FunctionSpans() []FunctionSpan {
	spans := make([]FunctionSpan, 0, len(s.Functions))
	for _, name := range s.functionOrder() {
		if start := s.Functions[name].StartLine; start != nil {
			spans = append(spans, FunctionSpan{Name: name, Start: *start})
		}
	}
	end := uint32(math.MaxUint32)
	for i := len(spans) - 1; i >= 0; i-- {
		spans[i].End = end
		end = saturatingSub(spans[i].Start, 1)
	}
	return spans
}

// functionOrder returns function names sorted by start line, unknown start
// lines first, ties broken by name.
func (s *Section) functionOrder() []string {
	names := slices.Sorted(maps.Keys(s.Functions))
	slices.SortStableFunc(names, func(a, b string) int {
		sa, sb := s.Functions[a].StartLine, s.Functions[b].StartLine
		switch {
		case sa == nil && sb == nil:
			return 0
		case sa == nil:
			return -1
		case sb == nil:
			return 1
		}
		return cmp.Compare(*sa, *sb)
	})
	return names
}

// Summary holds the derived found/hit counts of a section.
type Summary struct {
	FunctionsFound uint32
	FunctionsHit   uint32
	BranchesFound  uint32
	BranchesHit    uint32
	LinesFound     uint32
	LinesHit       uint32
}

// Summary computes the found/hit counts of s.
func (s *Section) Summary() Summary {
	sum := Summary{
		FunctionsFound: uint32(len(s.Functions)),
		BranchesFound:  uint32(len(s.Branches)),
		LinesFound:     uint32(len(s.Lines)),
	}
	for _, fn := range s.Functions {
		if fn.Count > 0 {
			sum.FunctionsHit++
		}
	}
	for _, br := range s.Branches {
		if deref(br.Taken) > 0 {
			sum.BranchesHit++
		}
	}
	for _, ln := range s.Lines {
		if ln.Count > 0 {
			sum.LinesHit++
		}
	}
	return sum
}

// Records yields the body of the section in canonical order: FN, FNDA,
// FNF/FNH, BRDA, BRF/BRH, DA, LF/LH. Summary pairs are omitted for empty
// maps.
func (s *Section) Records() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		sum := s.Summary()

		order := s.functionOrder()
		for _, name := range order {
			if start := s.Functions[name].StartLine; start != nil {
				if !yield(record.FunctionName{StartLine: *start, Name: name}) {
					return
				}
			}
		}
		for _, name := range order {
			if !yield(record.FunctionData{Count: s.Functions[name].Count, Name: name}) {
				return
			}
		}
		if len(order) > 0 {
			if !yield(record.FunctionsFound{Found: sum.FunctionsFound}) ||
				!yield(record.FunctionsHit{Hit: sum.FunctionsHit}) {
				return
			}
		}

		keys := slices.SortedFunc(maps.Keys(s.Branches), BranchKey.compare)
		for _, key := range keys {
			rec := record.BranchData{
				Line:   key.Line,
				Block:  key.Block,
				Branch: key.Branch,
				Taken:  clonePtr(s.Branches[key].Taken),
			}
			if !yield(rec) {
				return
			}
		}
		if len(keys) > 0 {
			if !yield(record.BranchesFound{Found: sum.BranchesFound}) ||
				!yield(record.BranchesHit{Hit: sum.BranchesHit}) {
				return
			}
		}

		lines := slices.Sorted(maps.Keys(s.Lines))
		for _, line := range lines {
			ln := s.Lines[line]
			if !yield(record.LineData{Line: line, Count: ln.Count, Checksum: clonePtr(ln.Checksum)}) {
				return
			}
		}
		if len(lines) > 0 {
			if !yield(record.LinesFound{Found: sum.LinesFound}) ||
				!yield(record.LinesHit{Hit: sum.LinesHit}) {
				return
			}
		}
	}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}
