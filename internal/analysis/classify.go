package analysis

import (
	"errors"
	"strconv"
	"strings"
)

// Classification is the inferred kind of a column.
type Classification int

const (
	Categorical Classification = iota
	Numeric
	Binary
)

func (c Classification) String() string {
	switch c {
	case Numeric:
		return "numeric"
	case Binary:
		return "binary"
	default:
		return "categorical"
	}
}

// MarshalText lets reports carry the kind as a plain string.
func (c Classification) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Classify infers a column kind from its raw values. A column whose distinct
// tokens are all "0" or "1" is Binary; one whose every value parses as a float
// is Numeric; anything else is Categorical. An empty column is Categorical.
func Classify(values []string) Classification {
	if len(values) == 0 {
		return Categorical
	}
	if isBinary(values) {
		return Binary
	}
	for _, v := range values {
		if _, ok := ParseFloat(v); !ok {
			return Categorical
		}
	}
	return Numeric
}

// isBinary compares exact tokens; " 1" is not binary.
func isBinary(values []string) bool {
	for _, v := range values {
		if v != "0" && v != "1" {
			return false
		}
	}
	return true
}

// ParseFloat reports whether s is a decimal or scientific-notation number,
// tolerating surrounding whitespace. nan and inf spellings are accepted and
// literals beyond float64 range saturate to ±Inf. Hex and digit-separator
// forms are rejected.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
