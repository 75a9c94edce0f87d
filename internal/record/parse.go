package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownRecord is returned for a line whose kind token is not recognized.
	ErrUnknownRecord = errors.New("unknown record")
	// ErrTooManyFields is returned when a record has more fields than its kind allows.
	ErrTooManyFields = errors.New("too many fields found")
	// ErrFieldNotFound is the cause of a FieldError for a missing field.
	ErrFieldNotFound = errors.New("not found")
)

// FieldError reports a missing or malformed field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field `%s`: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Parse decodes one tracefile line. Trailing CR and LF characters are ignored.
func Parse(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	token, body, _ := strings.Cut(line, ":")

	kind, ok := ParseKind(token)
	if !ok {
		return nil, ErrUnknownRecord
	}

	switch kind {
	case KindTestName:
		return TestName{Name: body}, nil
	case KindSourceFile:
		return SourceFile{Path: body}, nil
	case KindFunctionName:
		f := newFields(body, 2)
		start, err := f.u32("start_line")
		if err != nil {
			return nil, err
		}
		name, err := f.str("name")
		if err != nil {
			return nil, err
		}
		return FunctionName{StartLine: start, Name: name}, nil
	case KindFunctionData:
		f := newFields(body, 2)
		count, err := f.u64("count")
		if err != nil {
			return nil, err
		}
		name, err := f.str("name")
		if err != nil {
			return nil, err
		}
		return FunctionData{Count: count, Name: name}, nil
	case KindFunctionsFound:
		return parseSummary(body, "found", func(n uint32) Record { return FunctionsFound{Found: n} })
	case KindFunctionsHit:
		return parseSummary(body, "hit", func(n uint32) Record { return FunctionsHit{Hit: n} })
	case KindBranchData:
		return parseBranchData(body)
	case KindBranchesFound:
		return parseSummary(body, "found", func(n uint32) Record { return BranchesFound{Found: n} })
	case KindBranchesHit:
		return parseSummary(body, "hit", func(n uint32) Record { return BranchesHit{Hit: n} })
	case KindLineData:
		return parseLineData(body)
	case KindLinesFound:
		return parseSummary(body, "found", func(n uint32) Record { return LinesFound{Found: n} })
	case KindLinesHit:
		return parseSummary(body, "hit", func(n uint32) Record { return LinesHit{Hit: n} })
	case KindEndOfRecord:
		return EndOfRecord{}, nil
	default:
		panic(errors.AssertionFailedf("unhandled record kind %d", kind))
	}
}

func parseSummary(body, name string, build func(uint32) Record) (Record, error) {
	f := newFields(body, -1)
	n, err := f.u32(name)
	if err != nil {
		return nil, err
	}
	if !f.done() {
		return nil, ErrTooManyFields
	}
	return build(n), nil
}

func parseBranchData(body string) (Record, error) {
	f := newFields(body, -1)
	line, err := f.u32("line")
	if err != nil {
		return nil, err
	}
	block, err := f.u32("block")
	if err != nil {
		return nil, err
	}
	branch, err := f.u32("branch")
	if err != nil {
		return nil, err
	}
	taken, err := f.str("taken")
	if err != nil {
		return nil, err
	}
	if !f.done() {
		return nil, ErrTooManyFields
	}
	rec := BranchData{Line: line, Block: block, Branch: branch}
	if taken != "-" {
		n, err := strconv.ParseUint(taken, 10, 64)
		if err != nil {
			return nil, &FieldError{Field: "taken", Err: err}
		}
		rec.Taken = &n
	}
	return rec, nil
}

func parseLineData(body string) (Record, error) {
	f := newFields(body, 3)
	line, err := f.u32("line")
	if err != nil {
		return nil, err
	}
	count, err := f.u64("count")
	if err != nil {
		return nil, err
	}
	rec := LineData{Line: line, Count: count}
	if checksum, ok := f.next(); ok && checksum != "-" {
		rec.Checksum = &checksum
	}
	return rec, nil
}

// fields walks the comma separated body of a record. With a positive limit
// the last field keeps any remaining commas verbatim.
type fields struct {
	parts []string
}

func newFields(body string, limit int) *fields {
	return &fields{parts: strings.SplitN(body, ",", limit)}
}

func (f *fields) next() (string, bool) {
	if len(f.parts) == 0 {
		return "", false
	}
	s := f.parts[0]
	f.parts = f.parts[1:]
	return s, true
}

func (f *fields) done() bool {
	return len(f.parts) == 0
}

func (f *fields) str(name string) (string, error) {
	s, ok := f.next()
	if !ok {
		return "", &FieldError{Field: name, Err: ErrFieldNotFound}
	}
	return s, nil
}

func (f *fields) u32(name string) (uint32, error) {
	s, err := f.str(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &FieldError{Field: name, Err: err}
	}
	return uint32(n), nil
}

func (f *fields) u64(name string) (uint64, error) {
	s, err := f.str(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: name, Err: err}
	}
	return n, nil
}
