package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvstats/internal/dataset"
)

func TestDefaultPlan(t *testing.T) {
	assert.Equal(t, Plan{nil}, DefaultPlan(nil))
	assert.Equal(t, Plan{nil, {"a"}}, DefaultPlan([]string{"a"}))
	assert.Equal(t, Plan{nil, {"a"}, {"a", "b"}}, DefaultPlan([]string{"a", "b", "c"}))
}

func TestPlanValidate(t *testing.T) {
	cols := []string{"a", "b", "c"}
	assert.NoError(t, ExplicitPlan([]string{"b", "c"}).Validate(cols))
	assert.True(t, errors.Is(ExplicitPlan([]string{"nope"}).Validate(cols), ErrUnknownColumn))
	assert.True(t, errors.Is(ExplicitPlan(cols).Validate(cols), ErrTooManyKeys))
}

func TestDescribeDefaultPlan(t *testing.T) {
	recs := dataset.Records([]string{"region", "store", "sales"},
		[]string{"north", "s1", "10"},
		[]string{"north", "s2", "20"},
		[]string{"south", "s3", "30"},
	)
	opt := DefaultOptions()
	reps, err := Describe(recs, DefaultPlan([]string{"region", "store", "sales"}), opt)
	require.NoError(t, err)
	require.Len(t, reps, 3)
	assert.Equal(t, OverallLabel, reps[0].Label)
	assert.Equal(t, 3, reps[0].Size)
	assert.Equal(t, "Grouped by [region] = (north)", reps[1].Label)
	assert.Equal(t, 2, reps[1].Groups)
	assert.Equal(t, "Grouped by [region store] = (north, s1)", reps[2].Label)
}

func TestDescribeOverallIgnoresMaxGroups(t *testing.T) {
	recs := exampleRecords()
	reps, err := Describe(recs, ExplicitPlan([]string{"y"}), Options{MaxGroups: 1})
	require.NoError(t, err)
	require.Len(t, reps, 2)
	assert.Equal(t, OverallLabel, reps[0].Label)
	assert.Equal(t, []string{"a"}, reps[1].Key)
}

func TestStatsMarshalKeepsOrder(t *testing.T) {
	recs := dataset.Records([]string{"zeta", "alpha", "mid"},
		[]string{"1.5", "x", "q"},
		[]string{"2.5", "y", "q"},
	)
	st, err := Analyze(recs)
	require.NoError(t, err)

	b, err := json.Marshal(st)
	require.NoError(t, err)
	s := string(b)
	iz, ia, im := strings.Index(s, `"zeta"`), strings.Index(s, `"alpha"`), strings.Index(s, `"mid"`)
	assert.True(t, iz >= 0 && iz < ia && ia < im, s)
	assert.Contains(t, s, `"kind":"numeric"`)

	y, err := yaml.Marshal(st)
	require.NoError(t, err)
	ys := string(y)
	assert.True(t, strings.Index(ys, "zeta:") < strings.Index(ys, "alpha:"), ys)
	assert.Contains(t, ys, "kind: categorical")
}
