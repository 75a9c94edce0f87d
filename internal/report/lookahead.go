package report

import (
	"io"

	"github.com/cockroachdb/errors"
)

// lookahead wraps a pull-based source with a single slot of push-back.
type lookahead[T any] struct {
	read func() (T, error)
	slot T
	full bool
}

func newLookahead[T any](read func() (T, error)) *lookahead[T] {
	return &lookahead[T]{read: read}
}

// pop returns the next item, or ok == false once the source is exhausted.
func (l *lookahead[T]) pop() (item T, ok bool, err error) {
	if l.full {
		item, l.slot, l.full = l.slot, *new(T), false
		return item, true, nil
	}
	item, err = l.read()
	if errors.Is(err, io.EOF) {
		return item, false, nil
	}
	if err != nil {
		return item, false, err
	}
	return item, true, nil
}

// peek returns the next item without consuming it.
func (l *lookahead[T]) peek() (item T, ok bool, err error) {
	item, ok, err = l.pop()
	if ok {
		l.push(item)
	}
	return item, ok, err
}

// push returns an item to the source. At most one item may be pushed back.
func (l *lookahead[T]) push(item T) {
	if l.full {
		panic(errors.AssertionFailedf("lookahead slot already holds an item"))
	}
	l.slot, l.full = item, true
}
