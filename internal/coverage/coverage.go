// Package coverage derives found/hit statistics from a merged report.
package coverage

import (
	"github.com/zjy-dev/lcovkit/internal/report"
)

// Counts holds the found/hit numbers of one kind of coverage item.
type Counts struct {
	Found uint64 `yaml:"found" json:"found"`
	Hit   uint64 `yaml:"hit" json:"hit"`
}

// Percentage returns Hit as a percentage of Found, or 0 when nothing was found.
func (c Counts) Percentage() float64 {
	if c.Found == 0 {
		return 0
	}
	return float64(c.Hit) * 100 / float64(c.Found)
}

func (c *Counts) add(found, hit uint32) {
	c.Found += uint64(found)
	c.Hit += uint64(hit)
}

// CoverageStats holds coverage statistics for one section or for a whole
// report.
type CoverageStats struct {
	TestName   string `yaml:"test_name,omitempty" json:"test_name,omitempty"`
	SourceFile string `yaml:"source_file,omitempty" json:"source_file,omitempty"`

	// Overall line coverage percentage (0-100)
	CoveragePercentage float64 `yaml:"coverage_percentage" json:"coverage_percentage"`

	Lines     Counts `yaml:"lines" json:"lines"`
	Functions Counts `yaml:"functions" json:"functions"`
	Branches  Counts `yaml:"branches" json:"branches"`
}

// Stats is the statistics of a report, per section and in total.
type Stats struct {
	Sections []CoverageStats `yaml:"sections" json:"sections"`
	Total    CoverageStats   `yaml:"total" json:"total"`
}

// Compute derives statistics from r. Sections are listed in report order.
func Compute(r *report.Report) *Stats {
	stats := &Stats{Sections: make([]CoverageStats, 0, r.Len())}
	for key, section := range r.Sections() {
		sum := section.Summary()
		s := CoverageStats{TestName: key.TestName, SourceFile: key.SourceFile}
		s.Lines.add(sum.LinesFound, sum.LinesHit)
		s.Functions.add(sum.FunctionsFound, sum.FunctionsHit)
		s.Branches.add(sum.BranchesFound, sum.BranchesHit)
		s.CoveragePercentage = s.Lines.Percentage()
		stats.Sections = append(stats.Sections, s)

		stats.Total.Lines.add(sum.LinesFound, sum.LinesHit)
		stats.Total.Functions.add(sum.FunctionsFound, sum.FunctionsHit)
		stats.Total.Branches.add(sum.BranchesFound, sum.BranchesHit)
	}
	stats.Total.CoveragePercentage = stats.Total.Lines.Percentage()
	return stats
}
