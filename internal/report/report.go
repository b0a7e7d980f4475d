// Package report renders describe results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvstats/internal/analysis"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat accepts a format name, case-insensitively; "md" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use text|markdown|json|yaml)", s)
}

// Ext is the file extension used when writing a report of this format.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// Document is one describe run over one source.
type Document struct {
	RunID       uuid.UUID              `json:"run_id" yaml:"run_id"`
	Source      string                 `json:"source" yaml:"source"`
	Rows        int                    `json:"rows" yaml:"rows"`
	Columns     []string               `json:"columns" yaml:"columns"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Sections    []analysis.GroupReport `json:"sections" yaml:"sections"`
}

// NewDocument stamps a fresh run id and time.
func NewDocument(source string, rows int, columns []string, sections []analysis.GroupReport) *Document {
	return &Document{
		RunID:       uuid.New(),
		Source:      source,
		Rows:        rows,
		Columns:     columns,
		GeneratedAt: time.Now().UTC(),
		Sections:    sections,
	}
}

// Render writes doc in the requested format.
func Render(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, doc.Markdown())
		return err
	default:
		_, err := io.WriteString(w, doc.Text())
		return err
	}
}

// Text renders the console layout: one block per section, one indented
// key: value line per statistic.
func (d *Document) Text() string {
	var b strings.Builder
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "\n--- %s ---\n", s.Label)
		s.Stats.Each(func(col string, cs analysis.ColumnStats) {
			fmt.Fprintf(&b, "Column: %s\n", col)
			fmt.Fprintf(&b, "  count: %d\n", cs.Count)
			switch {
			case cs.Numeric != nil:
				n := cs.Numeric
				fmt.Fprintf(&b, "  mean: %s\n", num(n.Mean))
				fmt.Fprintf(&b, "  min: %s\n", num(n.Min))
				fmt.Fprintf(&b, "  max: %s\n", num(n.Max))
				fmt.Fprintf(&b, "  stddev: %s\n", num(n.StdDev))
			case cs.Categorical != nil:
				c := cs.Categorical
				fmt.Fprintf(&b, "  unique: %d\n", c.UniqueCount)
				fmt.Fprintf(&b, "  most_common: (%s, %d)\n", quote(c.MostCommon.Value), c.MostCommon.Count)
				if len(c.Values) > 0 {
					b.WriteString("  value_counts:\n")
					for _, vc := range c.Values {
						fmt.Fprintf(&b, "    %s: %d\n", quote(vc.Value), vc.Count)
					}
				}
			}
			b.WriteString("\n")
		})
	}
	return b.String()
}

// Markdown renders a compact report suitable for prompts or standalone docs.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Source != "" {
		fmt.Fprintf(&b, "File: %s\n", d.Source)
	}
	fmt.Fprintf(&b, "Rows: %d\n", d.Rows)
	fmt.Fprintf(&b, "Columns: %d\n", len(d.Columns))
	if d.RunID != uuid.Nil {
		fmt.Fprintf(&b, "Run: %s\n", d.RunID)
	}
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "\n[%s] (n=%d)\n", s.Label, s.Size)
		if s.Groups > 1 && len(s.KeyColumns) > 0 {
			fmt.Fprintf(&b, "groups: %d", s.Groups)
			if s.Skipped > 0 {
				fmt.Fprintf(&b, ", skipped rows: %d", s.Skipped)
			}
			b.WriteString("\n")
		}
		if s.Stats.Len() == 0 {
			b.WriteString("(no reportable columns)\n")
			continue
		}
		s.Stats.Each(func(col string, cs analysis.ColumnStats) {
			fmt.Fprintf(&b, "- %s: %s (count %d)", safeName(col), cs.Kind, cs.Count)
			switch {
			case cs.Numeric != nil:
				n := cs.Numeric
				fmt.Fprintf(&b, "; mean %.4g, min %.4g, max %.4g, std %.4g", n.Mean, n.Min, n.Max, n.StdDev)
			case cs.Categorical != nil:
				c := cs.Categorical
				if len(c.Values) > 0 {
					b.WriteString("; top: ")
					for i, vc := range c.Values {
						if i > 0 {
							b.WriteString(", ")
						}
						fmt.Fprintf(&b, "%s(%d)", safeVal(vc.Value), vc.Count)
					}
				}
				fmt.Fprintf(&b, "; unique=%d", c.UniqueCount)
			}
			b.WriteString("\n")
		})
	}
	return b.String()
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func quote(s string) string { return strconv.Quote(s) }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	if s == "" {
		return `""`
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
