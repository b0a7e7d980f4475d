package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	"github.com/KaramelBytes/csvstats/internal/dataset"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	cols := []string{"team", "flag", "points", "city"}
	recs := dataset.Records(cols,
		[]string{"red", "0", "10", "Oslo"},
		[]string{"red", "1", "14", ""},
		[]string{"blue", "1", "7", "Oslo"},
	)
	secs, err := analysis.Describe(recs, analysis.DefaultPlan(cols), analysis.DefaultOptions())
	require.NoError(t, err)
	return NewDocument("games.csv", len(recs), cols, secs)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"": FormatText, "TEXT": FormatText, "md": FormatMarkdown,
		"json": FormatJSON, "yml": FormatYAML, " yaml ": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, ".md", FormatMarkdown.Ext())
}

func TestTextLayout(t *testing.T) {
	out := sampleDocument(t).Text()
	assert.Contains(t, out, "--- Overall Dataset ---")
	assert.Contains(t, out, "--- Grouped by [team] = (red) ---")
	assert.Contains(t, out, "--- Grouped by [team flag] = (red, 0) ---")
	assert.Contains(t, out, "Column: points\n  count: 3\n  mean: 10.333333333333334\n  min: 7\n  max: 14\n")
	assert.Contains(t, out, "Column: city\n  count: 3\n  unique: 2\n  most_common: (\"Oslo\", 2)\n")
	assert.NotContains(t, out, "Column: flag")
}

func TestMarkdownLayout(t *testing.T) {
	doc := sampleDocument(t)
	md := doc.Markdown()
	assert.Contains(t, md, "[DATASET SUMMARY]")
	assert.Contains(t, md, "File: games.csv")
	assert.Contains(t, md, "Rows: 3")
	assert.Contains(t, md, "Run: "+doc.RunID.String())
	assert.Contains(t, md, "[Overall Dataset] (n=3)")
	assert.Contains(t, md, "- points: numeric (count 3); mean 10.33, min 7, max 14")
	assert.Contains(t, md, `- city: categorical (count 3); top: Oslo(2), ""(1); unique=2`)
	assert.Contains(t, md, "[Grouped by [team] = (red)] (n=2)\ngroups: 2\n")
}

func TestRenderJSON(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, FormatJSON))

	var decoded struct {
		RunID    string `json:"run_id"`
		Rows     int    `json:"rows"`
		Sections []struct {
			Label string                     `json:"label"`
			Stats map[string]json.RawMessage `json:"stats"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, doc.RunID.String(), decoded.RunID)
	assert.Equal(t, 3, decoded.Rows)
	require.Len(t, decoded.Sections, 3)
	assert.Equal(t, analysis.OverallLabel, decoded.Sections[0].Label)
	assert.Contains(t, decoded.Sections[0].Stats, "points")
	assert.NotContains(t, decoded.Sections[0].Stats, "flag")
	var points struct {
		Kind    string `json:"kind"`
		Numeric struct {
			Max float64 `json:"max"`
		} `json:"numeric"`
	}
	require.NoError(t, json.Unmarshal(decoded.Sections[0].Stats["points"], &points))
	assert.Equal(t, "numeric", points.Kind)
	assert.Equal(t, 14.0, points.Numeric.Max)
}

func TestRenderJSONNonFinite(t *testing.T) {
	recs := dataset.Records([]string{"v"}, []string{"inf"}, []string{"2"})
	secs, err := analysis.Describe(recs, analysis.Plan{nil}, analysis.Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewDocument("x", 2, []string{"v"}, secs), FormatJSON))
	assert.Contains(t, buf.String(), `"max": "+Inf"`)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleDocument(t), FormatYAML))
	out := buf.String()
	assert.Contains(t, out, "source: games.csv")
	assert.Contains(t, out, "label: Overall Dataset")

	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &generic))
	assert.Equal(t, 3, generic["rows"])
	assert.True(t, strings.Index(out, "team:") < strings.Index(out, "points:"))
}

func TestDescribeTable(t *testing.T) {
	cols := []string{"team", "points"}
	tbl := &dataset.Table{
		Name:   "t.csv",
		Header: dataset.NewHeader(cols),
		Records: dataset.Records(cols,
			[]string{"red", "1"},
			[]string{"blue", "2"},
		),
	}
	doc, err := Describe(tbl, []string{"points"}, analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, "t.csv", doc.Source)
	assert.Equal(t, 2, doc.Rows)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Grouped by [points] = (2)", doc.Sections[2].Label)

	_, err = Describe(tbl, []string{"missing"}, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrUnknownColumn)
}
