package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNumeric(t *testing.T) {
	cs, ok := Summarize(Numeric, []string{"2", "4", "4", "4", "5", "5", "7", "9"})
	require.True(t, ok)
	require.NotNil(t, cs.Numeric)
	assert.Nil(t, cs.Categorical)
	assert.Equal(t, Numeric, cs.Kind)
	assert.Equal(t, 8, cs.Count)
	assert.Equal(t, 8, cs.Numeric.Count)
	assert.InDelta(t, 5.0, cs.Numeric.Mean, 1e-12)
	assert.Equal(t, 2.0, cs.Numeric.Min)
	assert.Equal(t, 9.0, cs.Numeric.Max)
	// sample variance = 32/7
	assert.InDelta(t, math.Sqrt(32.0/7.0), cs.Numeric.StdDev, 1e-12)
}

func TestSummarizeNumericSingleValue(t *testing.T) {
	cs, ok := Summarize(Numeric, []string{"3"})
	require.True(t, ok)
	require.NotNil(t, cs.Numeric)
	assert.Equal(t, NumericStats{Count: 1, Mean: 3, Min: 3, Max: 3, StdDev: 0}, *cs.Numeric)
}

func TestSummarizeEmptyShortCircuits(t *testing.T) {
	for _, class := range []Classification{Numeric, Categorical} {
		cs, ok := Summarize(class, nil)
		require.True(t, ok, class.String())
		assert.Equal(t, 0, cs.Count)
		assert.Nil(t, cs.Numeric)
		assert.Nil(t, cs.Categorical)
	}
}

func TestSummarizeBinarySuppressed(t *testing.T) {
	_, ok := Summarize(Binary, []string{"0", "1"})
	assert.False(t, ok)

	_, ok = Summarize(Binary, nil)
	assert.False(t, ok, "empty binary column is still suppressed")
}

func TestSummarizeCategorical(t *testing.T) {
	cs, ok := Summarize(Categorical, []string{"b", "a", "", "a", "b", "c", ""})
	require.True(t, ok)
	require.NotNil(t, cs.Categorical)
	c := cs.Categorical
	assert.Equal(t, 7, c.Count)
	assert.Equal(t, 4, c.UniqueCount)
	// b, a and "" tie at 2; b was seen first
	assert.Equal(t, ValueCount{Value: "b", Count: 2}, c.MostCommon)
	assert.Equal(t, []ValueCount{
		{Value: "b", Count: 2},
		{Value: "a", Count: 2},
		{Value: "", Count: 2},
		{Value: "c", Count: 1},
	}, c.Values)
}

func TestSummarizeCategoricalMixed(t *testing.T) {
	values := []string{"3", "foo", "5"}
	cs, ok := Summarize(Classify(values), values)
	require.True(t, ok)
	assert.Equal(t, Categorical, cs.Kind)
	assert.Equal(t, 3, cs.Categorical.UniqueCount)
	assert.Equal(t, ValueCount{Value: "3", Count: 1}, cs.Categorical.MostCommon)
}

func TestCategoricalTruncated(t *testing.T) {
	c := CategoricalStats{
		Count:       6,
		UniqueCount: 3,
		MostCommon:  ValueCount{"x", 3},
		Values:      []ValueCount{{"x", 3}, {"y", 2}, {"z", 1}},
	}
	got := c.Truncated(2)
	assert.Len(t, got.Values, 2)
	assert.Equal(t, 3, got.UniqueCount)
	assert.Equal(t, ValueCount{"x", 3}, got.MostCommon)
	assert.Len(t, c.Values, 3, "original must be untouched")

	assert.Len(t, c.Truncated(0).Values, 3)
	assert.Len(t, c.Truncated(10).Values, 3)
}
