package analysis

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumericStats summarizes a numeric column. StdDev is the sample (n-1)
// standard deviation and is 0 for a single value.
type NumericStats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
}

// MarshalJSON spells NaN and Inf as strings since JSON numbers cannot hold them.
func (n NumericStats) MarshalJSON() ([]byte, error) {
	enc := func(f float64) interface{} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return f
	}
	return json.Marshal(struct {
		Count  int         `json:"count"`
		Mean   interface{} `json:"mean"`
		Min    interface{} `json:"min"`
		Max    interface{} `json:"max"`
		StdDev interface{} `json:"stddev"`
	}{n.Count, enc(n.Mean), enc(n.Min), enc(n.Max), enc(n.StdDev)})
}

// ValueCount is one frequency-table entry.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// CategoricalStats summarizes a text column. Values is the frequency table
// ordered by descending count, first-seen order breaking ties; it may be
// truncated for display while UniqueCount and MostCommon keep describing the
// full table.
type CategoricalStats struct {
	Count       int          `json:"count" yaml:"count"`
	UniqueCount int          `json:"unique_count" yaml:"unique_count"`
	MostCommon  ValueCount   `json:"most_common" yaml:"most_common"`
	Values      []ValueCount `json:"values" yaml:"values"`
}

// Truncated returns a copy exposing at most n frequency entries; n <= 0 keeps all.
func (c CategoricalStats) Truncated(n int) CategoricalStats {
	if n <= 0 || len(c.Values) <= n {
		return c
	}
	out := c
	out.Values = make([]ValueCount, n)
	copy(out.Values, c.Values[:n])
	return out
}

// ColumnStats is the statistics record for one reported column. Exactly one
// of Numeric or Categorical is set unless Count is 0.
type ColumnStats struct {
	Kind        Classification    `json:"kind" yaml:"kind"`
	Count       int               `json:"count" yaml:"count"`
	Numeric     *NumericStats     `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty" yaml:"categorical,omitempty"`
}

// Summarize computes the statistics for one column. The boolean is false when
// the column is suppressed (Binary) and must be left out of reports.
func Summarize(class Classification, values []string) (ColumnStats, bool) {
	if class == Binary {
		return ColumnStats{}, false
	}
	if len(values) == 0 {
		return ColumnStats{Kind: class}, true
	}
	switch class {
	case Numeric:
		ns := summarizeNumeric(values)
		return ColumnStats{Kind: Numeric, Count: ns.Count, Numeric: &ns}, true
	default:
		cs := summarizeCategorical(values)
		return ColumnStats{Kind: Categorical, Count: cs.Count, Categorical: &cs}, true
	}
}

// summarizeNumeric expects every value to parse; callers classify first.
// Values that do not parse are skipped rather than counted as zero.
func summarizeNumeric(values []string) NumericStats {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if x, ok := ParseFloat(v); ok {
			xs = append(xs, x)
		}
	}
	ns := NumericStats{Count: len(xs)}
	if ns.Count == 0 {
		return ns
	}
	ns.Min = floats.Min(xs)
	ns.Max = floats.Max(xs)
	if ns.Count == 1 {
		ns.Mean = xs[0]
		return ns
	}
	ns.Mean, ns.StdDev = stat.MeanStdDev(xs, nil)
	// sum/n can round just outside [min, max], e.g. three 0.1 values
	ns.Mean = math.Min(math.Max(ns.Mean, ns.Min), ns.Max)
	return ns
}

func summarizeCategorical(values []string) CategoricalStats {
	index := make(map[string]int, len(values))
	var table []ValueCount
	for _, v := range values {
		if i, ok := index[v]; ok {
			table[i].Count++
			continue
		}
		index[v] = len(table)
		table = append(table, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Count > table[j].Count })
	cs := CategoricalStats{Count: len(values), UniqueCount: len(table), Values: table}
	if len(table) > 0 {
		cs.MostCommon = table[0]
	}
	return cs
}
