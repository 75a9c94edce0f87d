package filter

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeSpec(t *testing.T) {
	tests := []struct {
		spec string
		want []Range
	}{
		{"7", []Range{{7, 7}}},
		{"3-4", []Range{{3, 4}}},
		{"10-", []Range{From(10)}},
		{"-2", []Range{{0, 2}}},
		{"3-4, 10-,-2,7", []Range{{3, 4}, From(10), {0, 2}, {7, 7}}},
		{"", nil},
		{" , ", nil},
		{"4294967295", []Range{{maxLine, maxLine}}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRangeSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeSpec_Errors(t *testing.T) {
	for _, spec := range []string{"-", "x", "1-x", "5-3", "4294967296", "1,2-1"} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseRangeSpec(spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRangeSpec), "got %v", err)
			// The standard library chain walk sees it through CLI wrapping.
			assert.ErrorIs(t, fmt.Errorf("invalid --lines value: %w", err), ErrInvalidRangeSpec)
		})
	}
}
