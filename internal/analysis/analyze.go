package analysis

import (
	"github.com/KaramelBytes/csvstats/internal/dataset"
)

// Analyze summarizes every column of records. Columns come from the header of
// the first record; a record missing one of them yields a *MalformedInputError.
// Binary columns are omitted. No records means an empty mapping.
func Analyze(records []dataset.Record) (*Stats, error) {
	out := NewStats()
	if len(records) == 0 {
		return out, nil
	}
	columns := records[0].Header().Names()
	values := make([][]string, len(columns))
	for i := range values {
		values[i] = make([]string, 0, len(records))
	}
	for row, rec := range records {
		for i, col := range columns {
			v, ok := rec.Get(col)
			if !ok {
				return nil, &MalformedInputError{Row: row, Column: col}
			}
			values[i] = append(values[i], v)
		}
	}
	for i, col := range columns {
		if cs, ok := Summarize(Classify(values[i]), values[i]); ok {
			out.Set(col, cs)
		}
	}
	return out, nil
}
