package filter

import (
	"bytes"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// DiffOptions controls how file names in a diff are mapped to the source
// file paths used in a tracefile.
type DiffOptions struct {
	// Strip removes this many leading path components, like patch -p.
	Strip int
	// Root is joined in front of the stripped name when non-empty.
	Root string
}

// FromUnifiedDiff builds a filter keeping the lines each hunk adds on the
// new side of the diff. A hunk that only deletes lines keeps the line at
// the deletion point. Deleted files are skipped.
func FromUnifiedDiff(data []byte, opts DiffOptions) (*Filter, error) {
	files, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse diff")
	}

	f := New()
	for _, fd := range files {
		if fd.NewName == devNull {
			continue
		}
		name, ok := opts.resolve(fd.NewName)
		if !ok {
			continue
		}
		f.Insert(name)
		for _, h := range fd.Hunks {
			f.Insert(name, hunkRanges(h)...)
		}
	}
	return f, nil
}

func (o DiffOptions) resolve(name string) (string, bool) {
	if i := strings.IndexAny(name, "\t"); i >= 0 {
		name = name[:i]
	}
	for range o.Strip {
		_, rest, ok := strings.Cut(name, "/")
		if !ok {
			return "", false
		}
		name = rest
	}
	if o.Root != "" {
		name = path.Join(o.Root, name)
	}
	return name, true
}

// hunkRanges returns the new-side lines added by h, or the lines that now
// follow each deletion if h adds nothing.
func hunkRanges(h *diff.Hunk) []Range {
	start := max(h.NewStartLine, 0)
	if h.NewLines == 0 {
		// An empty new side names the line before the hunk.
		start++
	}
	line := uint32(start)

	var added, deleted []Range
	prev := byte(0)
	for raw := range bytes.SplitSeq(h.Body, []byte{'\n'}) {
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '+':
			added = append(added, Line(line))
			line++
		case ' ':
			line++
		case '-':
			if prev != '-' {
				deleted = append(deleted, Line(line))
			}
		}
		prev = raw[0]
	}
	if len(added) > 0 {
		return added
	}
	return deleted
}
