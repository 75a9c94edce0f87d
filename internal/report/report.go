// Package report assembles LCOV records into per-test, per-file sections
// and merges them under the LCOV conflict rules.
package report

import (
	"cmp"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/zjy-dev/lcovkit/internal/record"
)

// SectionKey identifies a section of a report. An empty TestName is the
// default for sections without a TN record.
type SectionKey struct {
	TestName   string
	SourceFile string
}

// Compare orders keys by test name, then by source file.
func (k SectionKey) Compare(o SectionKey) int {
	if c := cmp.Compare(k.TestName, o.TestName); c != 0 {
		return c
	}
	return cmp.Compare(k.SourceFile, o.SourceFile)
}

func (k SectionKey) String() string {
	return fmt.Sprintf("TN:%s SF:%s", k.TestName, k.SourceFile)
}

// Report is a set of sections ordered by SectionKey.
type Report struct {
	sections map[SectionKey]*Section
}

// New returns an empty report.
func New() *Report {
	return &Report{sections: make(map[SectionKey]*Section)}
}

// Read builds a report from src using strict merge rules.
func Read(src record.Reader) (*Report, error) {
	r := New()
	if err := r.Merge(src); err != nil {
		return nil, err
	}
	return r, nil
}

// Merge folds every section read from src into r. On error, sections
// merged before the failing one remain in r.
func (r *Report) Merge(src record.Reader) error {
	return r.merge(src, true)
}

// MergeLossy is like Merge but resolves conflicting function start lines
// and checksums in favour of the incoming records instead of failing.
func (r *Report) MergeLossy(src record.Reader) error {
	return r.merge(src, false)
}

func (r *Report) merge(src record.Reader, strict bool) error {
	in := newLookahead(src.Read)
	for {
		rec, ok, err := in.pop()
		if err != nil {
			return readError(err)
		}
		if !ok {
			return nil
		}

		var testName string
		for ok {
			tn, isTN := rec.(record.TestName)
			if !isTN {
				break
			}
			testName = tn.Name
			if rec, ok, err = in.pop(); err != nil {
				return readError(err)
			}
		}
		if !ok {
			// Trailing TN with nothing after it.
			return nil
		}

		sf, isSF := rec.(record.SourceFile)
		if !isSF {
			return &UnexpectedRecordError{Expected: record.KindSourceFile, Found: rec.Kind()}
		}
		key := SectionKey{TestName: testName, SourceFile: sf.Path}

		section, err := readSection(in, strict)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		if err := r.mergeSection(key, section, strict); err != nil {
			return errors.Wrapf(err, "%s", key)
		}
	}
}

// readSection consumes body records up to and including end_of_record.
func readSection(in *lookahead[record.Record], strict bool) (*Section, error) {
	section := NewSection()
	for {
		rec, ok, err := in.pop()
		if err != nil {
			return nil, readError(err)
		}
		if !ok {
			return nil, ErrUnexpectedEOF
		}
		switch rec.Kind() {
		case record.KindEndOfRecord:
			return section, nil
		case record.KindTestName, record.KindSourceFile:
			in.push(rec)
			return nil, &UnexpectedRecordError{Expected: record.KindEndOfRecord, Found: rec.Kind()}
		}
		if err := section.add(rec, strict); err != nil {
			return nil, err
		}
	}
}

func (r *Report) mergeSection(key SectionKey, section *Section, strict bool) error {
	cur, ok := r.sections[key]
	switch {
	case !ok:
		cur = section
	case strict:
		if err := cur.Merge(section); err != nil {
			return err
		}
	default:
		cur.MergeLossy(section)
	}
	if cur.IsEmpty() {
		delete(r.sections, key)
		return nil
	}
	r.sections[key] = cur
	return nil
}

// MergeReport merges a copy of every section of other into r. Conflicts
// are checked per section; sections merged before a conflict remain in r.
func (r *Report) MergeReport(other *Report) error {
	for _, key := range other.Keys() {
		if err := r.mergeSection(key, other.sections[key].Clone(), true); err != nil {
			return errors.Wrapf(err, "%s", key)
		}
	}
	return nil
}

// MergeReportLossy merges a copy of every section of other into r,
// preferring other's values on conflict.
func (r *Report) MergeReportLossy(other *Report) {
	for _, key := range other.Keys() {
		_ = r.mergeSection(key, other.sections[key].Clone(), false)
	}
}

// Keys returns the section keys in order.
func (r *Report) Keys() []SectionKey {
	return slices.SortedFunc(maps.Keys(r.sections), SectionKey.Compare)
}

// Section returns the section stored under key, or nil.
func (r *Report) Section(key SectionKey) *Section {
	return r.sections[key]
}

// Len returns the number of sections.
func (r *Report) Len() int {
	return len(r.sections)
}

// Retain keeps only the sections for which keep returns true. Sections
// left empty by keep are removed as well.
func (r *Report) Retain(keep func(SectionKey, *Section) bool) {
	retained := make(map[SectionKey]*Section, len(r.sections))
	for key, section := range r.sections {
		if keep(key, section) && !section.IsEmpty() {
			retained[key] = section
		}
	}
	r.sections = retained
}

// Sections yields the sections in key order.
func (r *Report) Sections() iter.Seq2[SectionKey, *Section] {
	return func(yield func(SectionKey, *Section) bool) {
		for _, key := range r.Keys() {
			if !yield(key, r.sections[key]) {
				return
			}
		}
	}
}

// Records yields the whole report as tracefile records. Each section is
// written as TN, SF, body, end_of_record.
func (r *Report) Records() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for key, section := range r.Sections() {
			if !yield(record.TestName{Name: key.TestName}) ||
				!yield(record.SourceFile{Path: key.SourceFile}) {
				return
			}
			for rec := range section.Records() {
				if !yield(rec) {
					return
				}
			}
			if !yield(record.EndOfRecord{}) {
				return
			}
		}
	}
}

// WriteTo writes the report in tracefile format.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	return record.Write(w, r.Records())
}
