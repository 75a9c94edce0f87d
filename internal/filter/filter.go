// Package filter narrows a coverage report down to selected line ranges
// of selected source files.
package filter

import (
	"maps"
	"slices"

	"github.com/zjy-dev/lcovkit/internal/report"
)

// Filter maps source file paths to the lines kept for that file.
type Filter struct {
	files map[string]*LineSet
}

// New returns an empty filter. Applying an empty filter drops every section.
func New() *Filter {
	return &Filter{files: make(map[string]*LineSet)}
}

// Insert adds ranges to the set kept for path. Inserting no ranges still
// puts path in scope with an empty set.
func (f *Filter) Insert(path string, ranges ...Range) {
	set, ok := f.files[path]
	if !ok {
		set = &LineSet{}
		f.files[path] = set
	}
	set.Insert(ranges...)
}

// Union adds every path and range of other to f.
func (f *Filter) Union(other *Filter) {
	for path, set := range other.files {
		f.Insert(path, set.Ranges()...)
	}
}

// Lines returns the set kept for path, or nil if path is not in scope.
func (f *Filter) Lines(path string) *LineSet {
	return f.files[path]
}

// Paths returns the filtered paths in sorted order.
func (f *Filter) Paths() []string {
	return slices.Sorted(maps.Keys(f.files))
}

// Apply removes from r every section whose source file is not in scope and
// every function, branch and line outside the kept ranges. Sections left
// empty are dropped.
func (f *Filter) Apply(r *report.Report) {
	r.Retain(func(key report.SectionKey, section *report.Section) bool {
		set, ok := f.files[key.SourceFile]
		if !ok {
			return false
		}
		applySection(set, section)
		return true
	})
}

func applySection(set *LineSet, section *report.Section) {
	functions := make(map[string]report.Function, len(section.Functions))
	for _, span := range section.FunctionSpans() {
		if set.Contains(Range{Start: span.Start, End: span.End}) {
			functions[span.Name] = section.Functions[span.Name]
		}
	}

	branches := make(map[report.BranchKey]report.Branch, len(section.Branches))
	for key, branch := range section.Branches {
		if set.ContainsLine(key.Line) {
			branches[key] = branch
		}
	}

	lines := make(map[uint32]report.Line, len(section.Lines))
	for n, line := range section.Lines {
		if set.ContainsLine(n) {
			lines[n] = line
		}
	}

	section.Functions = functions
	section.Branches = branches
	section.Lines = lines
}
