package coverage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how Stats are rendered.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatMarkdown:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown stats format %q", s)
	}
}

// Encode writes s to w in the given format.
func (s *Stats) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode stats as yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode stats as json: %w", err)
		}
		return nil
	case FormatMarkdown:
		_, err := io.WriteString(w, s.markdown())
		return err
	default:
		return fmt.Errorf("unknown stats format %q", format)
	}
}

func (s *Stats) markdown() string {
	var b strings.Builder
	b.WriteString("# Coverage Summary\n\n")
	fmt.Fprintf(&b, "**Lines:** %s\n\n", formatCounts(s.Total.Lines))
	fmt.Fprintf(&b, "**Functions:** %s\n\n", formatCounts(s.Total.Functions))
	fmt.Fprintf(&b, "**Branches:** %s\n\n", formatCounts(s.Total.Branches))

	if len(s.Sections) == 0 {
		return b.String()
	}

	b.WriteString("## Files\n\n")
	b.WriteString("| Test | File | Lines | Functions | Branches |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, sec := range s.Sections {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %s |\n",
			sec.TestName, sec.SourceFile,
			formatCounts(sec.Lines), formatCounts(sec.Functions), formatCounts(sec.Branches))
	}
	return b.String()
}

func formatCounts(c Counts) string {
	if c.Found == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", c.Hit, c.Found, c.Percentage())
}
