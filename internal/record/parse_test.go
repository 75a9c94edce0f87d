package record

import (
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{"test name", "TN:test name", TestName{Name: "test name"}},
		{"empty test name", "TN:", TestName{}},
		{"test name keeps colons", "TN:a:b", TestName{Name: "a:b"}},
		{"source file", "SF:/path/to/source.c", SourceFile{Path: "/path/to/source.c"}},
		{"source file with comma", "SF:/tmp/a,b.c", SourceFile{Path: "/tmp/a,b.c"}},
		{"function name", "FN:5,main", FunctionName{StartLine: 5, Name: "main"}},
		{"function name with comma", "FN:5,foo<int, char>", FunctionName{StartLine: 5, Name: "foo<int, char>"}},
		{"function data", "FNDA:18446744073709551615,main", FunctionData{Count: 18446744073709551615, Name: "main"}},
		{"functions found", "FNF:3", FunctionsFound{Found: 3}},
		{"functions hit", "FNH:2", FunctionsHit{Hit: 2}},
		{"branch data taken", "BRDA:4,0,1,7", BranchData{Line: 4, Block: 0, Branch: 1, Taken: Taken(7)}},
		{"branch data not taken", "BRDA:4,0,1,-", BranchData{Line: 4, Block: 0, Branch: 1}},
		{"branches found", "BRF:8", BranchesFound{Found: 8}},
		{"branches hit", "BRH:4", BranchesHit{Hit: 4}},
		{"line data", "DA:6,2", LineData{Line: 6, Count: 2}},
		{"line data checksum", "DA:6,2,PF4Rz2r7RTliO9u6bZ7h6g", LineData{Line: 6, Count: 2, Checksum: Checksum("PF4Rz2r7RTliO9u6bZ7h6g")}},
		{"line data checksum with comma", "DA:6,2,a,b", LineData{Line: 6, Count: 2, Checksum: Checksum("a,b")}},
		{"line data dash checksum", "DA:6,2,-", LineData{Line: 6, Count: 2}},
		{"lines found", "LF:10", LinesFound{Found: 10}},
		{"lines hit", "LH:9", LinesHit{Hit: 9}},
		{"end of record", "end_of_record", EndOfRecord{}},
		{"end of record ignores body", "end_of_record:junk", EndOfRecord{}},
		{"trailing LF", "LH:9\n", LinesHit{Hit: 9}},
		{"trailing CRLF", "TN:x\r\n", TestName{Name: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind(), got.Kind())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantErr   error
		wantField string
	}{
		{"empty line", "", ErrUnknownRecord, ""},
		{"unknown token", "XX:1", ErrUnknownRecord, ""},
		{"lowercase token", "tn:x", ErrUnknownRecord, ""},
		{"function name without name", "FN:5", ErrFieldNotFound, "name"},
		{"function name bad line", "FN:x,main", strconv.ErrSyntax, "start_line"},
		{"function data bad count", "FNDA:-1,main", strconv.ErrSyntax, "count"},
		{"summary without value", "LF:", strconv.ErrSyntax, "found"},
		{"summary too many fields", "LH:1,2", ErrTooManyFields, ""},
		{"summary overflow", "FNF:4294967296", strconv.ErrRange, "found"},
		{"branch data too few fields", "BRDA:1,2,3", ErrFieldNotFound, "taken"},
		{"branch data too many fields", "BRDA:1,2,3,4,5", ErrTooManyFields, ""},
		{"branch data bad taken", "BRDA:1,2,3,x", strconv.ErrSyntax, "taken"},
		{"line data without count", "DA:6", ErrFieldNotFound, "count"},
		{"line data line overflow", "DA:4294967296,1", strconv.ErrRange, "line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var fieldErr *FieldError
			if tt.wantField == "" {
				assert.False(t, errors.As(err, &fieldErr))
				return
			}
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	lines := []string{
		"TN:",
		"TN:unit",
		"SF:/src/a.c",
		"FN:1,main",
		"FNDA:0,main",
		"FNF:1",
		"FNH:0",
		"BRDA:3,0,0,-",
		"BRDA:3,0,1,12",
		"BRF:2",
		"BRH:1",
		"DA:1,0",
		"DA:2,5,abc",
		"LF:2",
		"LH:1",
		"end_of_record",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			rec, err := Parse(line)
			require.NoError(t, err)
			assert.Equal(t, line, rec.String())
		})
	}
}

func TestKind(t *testing.T) {
	for k := KindTestName; k <= KindEndOfRecord; k++ {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := ParseKind("NOPE")
	assert.False(t, ok)
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
