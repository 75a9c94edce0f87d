package report

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intSource(items ...int) func() (int, error) {
	return func() (int, error) {
		if len(items) == 0 {
			return 0, io.EOF
		}
		n := items[0]
		items = items[1:]
		return n, nil
	}
}

func TestLookahead(t *testing.T) {
	l := newLookahead(intSource(1, 2))

	n, ok, err := l.peek()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok, err = l.pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	l.push(7)
	n, ok, _ = l.pop()
	require.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok, _ = l.pop()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok, err = l.pop()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = l.peek()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLookahead_Error(t *testing.T) {
	boom := errors.New("boom")
	l := newLookahead(func() (int, error) { return 0, boom })

	_, ok, err := l.pop()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestLookahead_DoublePushPanics(t *testing.T) {
	l := newLookahead(intSource())
	l.push(1)
	assert.Panics(t, func() { l.push(2) })
}
