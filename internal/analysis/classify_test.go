package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Classification
	}{
		{"binary strings", []string{"0", "1", "0", "1"}, Binary},
		{"all ones", []string{"1", "1"}, Binary},
		{"binary beats numeric", []string{"0"}, Binary},
		{"padded token is not binary", []string{" 1", "0"}, Numeric},
		{"float zero is not binary", []string{"0.0", "1"}, Numeric},
		{"integers", []string{"3", "4", "10"}, Numeric},
		{"scientific", []string{"1e3", "-2.5E-2", " 7 "}, Numeric},
		{"mixed", []string{"3", "foo", "5"}, Categorical},
		{"empty string breaks numeric", []string{"1", "", "2"}, Categorical},
		{"binary with missing", []string{"0", "", "1"}, Categorical},
		{"text", []string{"a", "b"}, Categorical},
		{"empty column", nil, Categorical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.values))
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want float64
	}{
		{"42", true, 42},
		{"  -3.5\t", true, -3.5},
		{"1e-3", true, 0.001},
		{".5", true, 0.5},
		{"1e400", true, math.Inf(1)},
		{"", false, 0},
		{"   ", false, 0},
		{"abc", false, 0},
		{"1,5", false, 0},
		{"0x10", false, 0},
		{"1_000", false, 0},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseFloat(%q)", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseFloat(%q)", tt.in)
		}
	}

	f, ok := ParseFloat("nan")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(f))
	f, ok = ParseFloat("-inf")
	assert.True(t, ok)
	assert.True(t, math.IsInf(f, -1))
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "numeric", Numeric.String())
	assert.Equal(t, "binary", Binary.String())
	assert.Equal(t, "categorical", Categorical.String())
}
