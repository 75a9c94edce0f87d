package record

import "strconv"

func (r TestName) String() string {
	return "TN:" + r.Name
}

func (r SourceFile) String() string {
	return "SF:" + r.Path
}

func (r FunctionName) String() string {
	return "FN:" + utoa(uint64(r.StartLine)) + "," + r.Name
}

func (r FunctionData) String() string {
	return "FNDA:" + utoa(r.Count) + "," + r.Name
}

func (r FunctionsFound) String() string {
	return "FNF:" + utoa(uint64(r.Found))
}

func (r FunctionsHit) String() string {
	return "FNH:" + utoa(uint64(r.Hit))
}

func (r BranchData) String() string {
	taken := "-"
	if r.Taken != nil {
		taken = utoa(*r.Taken)
	}
	return "BRDA:" + utoa(uint64(r.Line)) + "," + utoa(uint64(r.Block)) + "," + utoa(uint64(r.Branch)) + "," + taken
}

func (r BranchesFound) String() string {
	return "BRF:" + utoa(uint64(r.Found))
}

func (r BranchesHit) String() string {
	return "BRH:" + utoa(uint64(r.Hit))
}

func (r LineData) String() string {
	s := "DA:" + utoa(uint64(r.Line)) + "," + utoa(r.Count)
	if r.Checksum != nil {
		s += "," + *r.Checksum
	}
	return s
}

func (r LinesFound) String() string {
	return "LF:" + utoa(uint64(r.Found))
}

func (r LinesHit) String() string {
	return "LH:" + utoa(uint64(r.Hit))
}

func (EndOfRecord) String() string {
	return KindEndOfRecord.String()
}

func utoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
