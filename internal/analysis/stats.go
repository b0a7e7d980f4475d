package analysis

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Stats maps column name to its statistics, iterating in insertion order.
type Stats struct {
	columns []string
	byName  map[string]ColumnStats
}

// NewStats returns an empty mapping.
func NewStats() *Stats {
	return &Stats{byName: map[string]ColumnStats{}}
}

// Set inserts or replaces a column; replacing keeps the original position.
func (s *Stats) Set(column string, cs ColumnStats) {
	if _, ok := s.byName[column]; !ok {
		s.columns = append(s.columns, column)
	}
	s.byName[column] = cs
}

// Get returns the statistics for a column.
func (s *Stats) Get(column string) (ColumnStats, bool) {
	if s == nil {
		return ColumnStats{}, false
	}
	cs, ok := s.byName[column]
	return cs, ok
}

// Columns lists reported columns in insertion order.
func (s *Stats) Columns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len is the number of reported columns.
func (s *Stats) Len() int {
	if s == nil {
		return 0
	}
	return len(s.columns)
}

// Each calls fn for every column in order.
func (s *Stats) Each(fn func(column string, cs ColumnStats)) {
	if s == nil {
		return
	}
	for _, c := range s.columns {
		fn(c, s.byName[c])
	}
}

// MarshalJSON writes an object whose keys follow insertion order.
func (s *Stats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.byName[c])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits an ordered mapping node.
func (s *Stats) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	var err error
	s.Each(func(c string, cs ColumnStats) {
		if err != nil {
			return
		}
		var val yaml.Node
		if err = val.Encode(cs); err != nil {
			return
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c}, &val)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}
