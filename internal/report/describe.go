package report

import (
	"fmt"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	"github.com/KaramelBytes/csvstats/internal/dataset"
)

// Describe runs the describe pipeline over a loaded table. With no groupBy
// columns the default plan applies; otherwise the whole dataset is followed by
// one grouping on groupBy.
func Describe(t *dataset.Table, groupBy []string, opt analysis.Options) (*Document, error) {
	columns := t.Columns()
	plan := analysis.DefaultPlan(columns)
	if len(groupBy) > 0 {
		plan = analysis.ExplicitPlan(groupBy)
	}
	if err := plan.Validate(columns); err != nil {
		return nil, err
	}
	sections, err := analysis.Describe(t.Records, plan, opt)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", t.Name, err)
	}
	return NewDocument(t.Name, len(t.Records), columns, sections), nil
}
