// Package record implements the LCOV tracefile record codec.
//
// Each line of a tracefile is one record of the form
//
//	<KIND>:<field#0>,<field#1>,...<field#N>
//
// Records are represented by a closed set of types implementing Record.
package record

import "strconv"

// Kind identifies the type of a record.
type Kind int

const (
	KindTestName Kind = iota
	KindSourceFile
	KindFunctionName
	KindFunctionData
	KindFunctionsFound
	KindFunctionsHit
	KindBranchData
	KindBranchesFound
	KindBranchesHit
	KindLineData
	KindLinesFound
	KindLinesHit
	KindEndOfRecord
)

var kindTokens = [...]string{
	KindTestName:       "TN",
	KindSourceFile:     "SF",
	KindFunctionName:   "FN",
	KindFunctionData:   "FNDA",
	KindFunctionsFound: "FNF",
	KindFunctionsHit:   "FNH",
	KindBranchData:     "BRDA",
	KindBranchesFound:  "BRF",
	KindBranchesHit:    "BRH",
	KindLineData:       "DA",
	KindLinesFound:     "LF",
	KindLinesHit:       "LH",
	KindEndOfRecord:    "end_of_record",
}

// String returns the tracefile token of the kind, e.g. "FNDA".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTokens) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindTokens[k]
}

// ParseKind maps a tracefile token to its Kind.
func ParseKind(token string) (Kind, bool) {
	for k, tok := range kindTokens {
		if tok == token {
			return Kind(k), true
		}
	}
	return 0, false
}

// Record is one LCOV record. The set of implementations is closed.
type Record interface {
	Kind() Kind
	String() string
	record()
}

// TestName is a TN record.
type TestName struct {
	Name string
}

// SourceFile is an SF record.
type SourceFile struct {
	Path string
}

// FunctionName is an FN record.
type FunctionName struct {
	StartLine uint32
	Name      string
}

// FunctionData is an FNDA record.
type FunctionData struct {
	Count uint64
	Name  string
}

// FunctionsFound is an FNF record.
type FunctionsFound struct {
	Found uint32
}

// FunctionsHit is an FNH record.
type FunctionsHit struct {
	Hit uint32
}

// BranchData is a BRDA record. Block and Branch are opaque ids assigned by
// the instrumentation tool. A nil Taken is written as "-".
type BranchData struct {
	Line   uint32
	Block  uint32
	Branch uint32
	Taken  *uint64
}

// BranchesFound is a BRF record.
type BranchesFound struct {
	Found uint32
}

// BranchesHit is a BRH record.
type BranchesHit struct {
	Hit uint32
}

// LineData is a DA record.
type LineData struct {
	Line     uint32
	Count    uint64
	Checksum *string
}

// LinesFound is an LF record.
type LinesFound struct {
	Found uint32
}

// LinesHit is an LH record.
type LinesHit struct {
	Hit uint32
}

// EndOfRecord is the end_of_record sentinel closing a section.
type EndOfRecord struct{}

func (TestName) Kind() Kind       { return KindTestName }
func (SourceFile) Kind() Kind     { return KindSourceFile }
func (FunctionName) Kind() Kind   { return KindFunctionName }
func (FunctionData) Kind() Kind   { return KindFunctionData }
func (FunctionsFound) Kind() Kind { return KindFunctionsFound }
func (FunctionsHit) Kind() Kind   { return KindFunctionsHit }
func (BranchData) Kind() Kind     { return KindBranchData }
func (BranchesFound) Kind() Kind  { return KindBranchesFound }
func (BranchesHit) Kind() Kind    { return KindBranchesHit }
func (LineData) Kind() Kind       { return KindLineData }
func (LinesFound) Kind() Kind     { return KindLinesFound }
func (LinesHit) Kind() Kind       { return KindLinesHit }
func (EndOfRecord) Kind() Kind    { return KindEndOfRecord }

func (TestName) record()       {}
func (SourceFile) record()     {}
func (FunctionName) record()   {}
func (FunctionData) record()   {}
func (FunctionsFound) record() {}
func (FunctionsHit) record()   {}
func (BranchData) record()     {}
func (BranchesFound) record()  {}
func (BranchesHit) record()    {}
func (LineData) record()       {}
func (LinesFound) record()     {}
func (LinesHit) record()       {}
func (EndOfRecord) record()    {}

// Taken returns a pointer to n, for building BranchData values.
func Taken(n uint64) *uint64 {
	return &n
}

// Checksum returns a pointer to s, for building LineData values.
func Checksum(s string) *string {
	return &s
}
