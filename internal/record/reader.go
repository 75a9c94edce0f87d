package record

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

// maxLineSize bounds a single tracefile line. Function names of heavily
// templated C++ code can be very long.
const maxLineSize = 64 << 20

// Reader is a source of records. Read returns io.EOF once the source is
// exhausted.
type Reader interface {
	Read() (Record, error)
}

// LineError reports a line of a tracefile that could not be decoded.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("invalid record syntax at line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Decoder reads records from a tracefile, one per line.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{scanner: scanner}
}

// Read decodes the next line. Decode failures are returned as *LineError.
func (d *Decoder) Read() (Record, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to read line %d", d.line+1)
		}
		return nil, io.EOF
	}
	d.line++
	rec, err := Parse(d.scanner.Text())
	if err != nil {
		return nil, &LineError{Line: d.line, Err: err}
	}
	return rec, nil
}

// Line returns the number of lines consumed so far.
func (d *Decoder) Line() int {
	return d.line
}

type sliceReader struct {
	records []Record
}

// FromSlice returns a Reader yielding records in order.
func FromSlice(records []Record) Reader {
	return &sliceReader{records: records}
}

func (s *sliceReader) Read() (Record, error) {
	if len(s.records) == 0 {
		return nil, io.EOF
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

// SeqReader adapts a record sequence into a Reader. Close must be called
// if the reader is abandoned before it returns io.EOF.
type SeqReader struct {
	next func() (Record, bool)
	stop func()
}

// FromSeq returns a SeqReader pulling records from seq.
func FromSeq(seq iter.Seq[Record]) *SeqReader {
	next, stop := iter.Pull(seq)
	return &SeqReader{next: next, stop: stop}
}

func (s *SeqReader) Read() (Record, error) {
	rec, ok := s.next()
	if !ok {
		s.stop()
		return nil, io.EOF
	}
	return rec, nil
}

// Close releases the underlying sequence.
func (s *SeqReader) Close() error {
	s.stop()
	return nil
}

// ReadAll drains r into a slice.
func ReadAll(r Reader) ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Write writes every record of seq to w, each terminated by a newline.
func Write(w io.Writer, seq iter.Seq[Record]) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for rec := range seq {
		m, err := bw.WriteString(rec.String())
		n += int64(m)
		if err != nil {
			return n, errors.Wrap(err, "failed to write record")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, errors.Wrap(err, "failed to write record")
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, errors.Wrap(err, "failed to flush records")
	}
	return n, nil
}
