package analysis

import (
	"fmt"

	"github.com/KaramelBytes/csvstats/internal/dataset"
)

// Plan is the ordered list of groupings to report. An empty key list is the
// whole dataset.
type Plan [][]string

// DefaultPlan reports the whole dataset, then groups by the first column and
// by the first two columns when the header has them.
func DefaultPlan(columns []string) Plan {
	p := Plan{nil}
	if len(columns) > 0 {
		p = append(p, []string{columns[0]})
	}
	if len(columns) > 1 {
		p = append(p, []string{columns[0], columns[1]})
	}
	return p
}

// ExplicitPlan reports the whole dataset followed by one grouping on keys.
func ExplicitPlan(keys []string) Plan {
	if len(keys) == 0 {
		return Plan{nil}
	}
	return Plan{nil, keys}
}

// Validate checks every grouping against the header columns.
func (p Plan) Validate(columns []string) error {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	for _, keys := range p {
		if len(keys) > MaxKeyColumns {
			return fmt.Errorf("%w: %d (max %d)", ErrTooManyKeys, len(keys), MaxKeyColumns)
		}
		for _, k := range keys {
			if _, ok := known[k]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownColumn, k)
			}
		}
	}
	return nil
}

// Describe runs every grouping of the plan and concatenates the reports.
func Describe(records []dataset.Record, plan Plan, opt Options) ([]GroupReport, error) {
	var out []GroupReport
	for _, keys := range plan {
		// the whole dataset is never truncated away
		o := opt
		if len(keys) == 0 {
			o.MaxGroups = 0
		}
		reps, err := GroupAndAnalyze(records, keys, o)
		if err != nil {
			return nil, err
		}
		out = append(out, reps...)
	}
	return out, nil
}
