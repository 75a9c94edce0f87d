package report

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/zjy-dev/lcovkit/internal/record"
)

var (
	// ErrRead marks failures of the underlying record source.
	ErrRead = errors.New("failed to read record")
	// ErrUnexpectedEOF is returned when the input ends inside a section.
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	// ErrUnmatchedFunctionLine is returned when one function name is
	// declared with two different start lines.
	ErrUnmatchedFunctionLine = errors.New("unmatched start line of function")
	// ErrUnmatchedChecksum is returned when one line carries two different
	// checksums.
	ErrUnmatchedChecksum = errors.New("unmatched checksum")
)

// UnexpectedRecordError is returned when the record sequence does not
// follow the section grammar.
type UnexpectedRecordError struct {
	Expected record.Kind
	Found    record.Kind
}

func (e *UnexpectedRecordError) Error() string {
	return fmt.Sprintf("unexpected record `%s`, expected `%s`", e.Found, e.Expected)
}

// ReadError wraps a failure of the underlying record source. It matches
// ErrRead, and the source error (e.g. a *record.LineError) stays reachable
// through Unwrap.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read record: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRead.
func (e *ReadError) Is(target error) bool { return target == ErrRead }

func readError(err error) error {
	return &ReadError{Err: err}
}
