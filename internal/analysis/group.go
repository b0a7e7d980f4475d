package analysis

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/KaramelBytes/csvstats/internal/dataset"
	"github.com/KaramelBytes/csvstats/internal/parallel"
)

// MaxKeyColumns bounds how many columns one grouping may use.
const MaxKeyColumns = 2

// OverallLabel titles the whole-dataset report.
const OverallLabel = "Overall Dataset"

// Options bounds grouped output.
type Options struct {
	// MaxGroups limits how many groups are reported, in discovery order; 0 means all.
	MaxGroups int
	// MaxValues limits the frequency entries exposed per categorical column; 0 means all.
	MaxValues int
	// Workers analyses groups concurrently when > 1; 0 and 1 are sequential.
	Workers int
}

// DefaultOptions reports the first group of each grouping and the top 10
// values per categorical column.
func DefaultOptions() Options {
	return Options{MaxGroups: 1, MaxValues: 10, Workers: 1}
}

// Group is one partition of the records sharing a key tuple.
type Group struct {
	Key     []string
	Records []dataset.Record
}

// GroupReport is the labelled statistics of one group.
type GroupReport struct {
	Label      string   `json:"label" yaml:"label"`
	KeyColumns []string `json:"key_columns,omitempty" yaml:"key_columns,omitempty"`
	Key        []string `json:"key,omitempty" yaml:"key,omitempty"`
	Size       int      `json:"size" yaml:"size"`
	// Groups is how many groups the partition produced before MaxGroups applied.
	Groups int `json:"groups" yaml:"groups"`
	// Skipped counts records left out because they lacked a grouping column.
	Skipped int    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Stats   *Stats `json:"stats" yaml:"stats"`
}

// Partition splits records by their values at keys, keeping groups in the
// order their first record appears. Records lacking any key column are
// skipped; their number is returned. With no keys there is exactly one group.
func Partition(records []dataset.Record, keys []string) ([]Group, int) {
	if len(keys) == 0 {
		return []Group{{Records: records}}, 0
	}
	idx := newGroupIndex()
	var (
		groups  []Group
		skipped int
	)
	key := make([]string, len(keys))
	for _, rec := range records {
		ok := true
		for i, k := range keys {
			if key[i], ok = rec.Get(k); !ok {
				break
			}
		}
		if !ok {
			skipped++
			continue
		}
		gi, found := idx.lookup(key, groups)
		if !found {
			gi = len(groups)
			groups = append(groups, Group{Key: append([]string(nil), key...)})
			idx.insert(key, gi)
		}
		groups[gi].Records = append(groups[gi].Records, rec)
	}
	return groups, skipped
}

// GroupAndAnalyze partitions records by keys and analyzes the first
// opt.MaxGroups groups. Categorical frequency tables are cut to opt.MaxValues
// entries. A malformed group aborts the call with its error.
func GroupAndAnalyze(records []dataset.Record, keys []string, opt Options) ([]GroupReport, error) {
	if len(keys) > MaxKeyColumns {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyKeys, len(keys), MaxKeyColumns)
	}
	groups, skipped := Partition(records, keys)
	total := len(groups)
	if opt.MaxGroups > 0 && len(groups) > opt.MaxGroups {
		groups = groups[:opt.MaxGroups]
	}
	return parallel.MapOrdered(opt.workerCount(len(groups)), groups, func(_ int, g Group) (GroupReport, error) {
		st, err := Analyze(g.Records)
		if err != nil {
			return GroupReport{}, fmt.Errorf("%s: %w", Label(keys, g.Key), err)
		}
		return GroupReport{
			Label:      Label(keys, g.Key),
			KeyColumns: keys,
			Key:        g.Key,
			Size:       len(g.Records),
			Groups:     total,
			Skipped:    skipped,
			Stats:      truncateValues(st, opt.MaxValues),
		}, nil
	})
}

// workerCount caps opt.Workers at the number of groups; below 2 is sequential.
func (o Options) workerCount(groups int) int {
	if o.Workers <= 1 {
		return 1
	}
	return parallel.Workers(o.Workers, groups)
}

// Label titles a group report.
func Label(keys, key []string) string {
	if len(keys) == 0 {
		return OverallLabel
	}
	return fmt.Sprintf("Grouped by [%s] = (%s)", strings.Join(keys, " "), strings.Join(key, ", "))
}

func truncateValues(st *Stats, n int) *Stats {
	if n <= 0 {
		return st
	}
	out := NewStats()
	st.Each(func(col string, cs ColumnStats) {
		if cs.Categorical != nil {
			t := cs.Categorical.Truncated(n)
			cs.Categorical = &t
		}
		out.Set(col, cs)
	})
	return out
}

// groupIndex finds a group by key tuple. Keys hash with xxhash; equal hashes
// are confirmed by comparing the raw values.
type groupIndex struct {
	buckets map[uint64][]int
	digest  *xxhash.Digest
}

func newGroupIndex() *groupIndex {
	return &groupIndex{buckets: map[uint64][]int{}, digest: xxhash.New()}
}

func (x *groupIndex) hash(key []string) uint64 {
	x.digest.Reset()
	var n [8]byte
	for _, v := range key {
		// length prefix keeps ("ab","c") distinct from ("a","bc")
		binary.LittleEndian.PutUint64(n[:], uint64(len(v)))
		_, _ = x.digest.Write(n[:])
		_, _ = x.digest.WriteString(v)
	}
	return x.digest.Sum64()
}

func (x *groupIndex) lookup(key []string, groups []Group) (int, bool) {
	for _, gi := range x.buckets[x.hash(key)] {
		if equalKeys(groups[gi].Key, key) {
			return gi, true
		}
	}
	return 0, false
}

func (x *groupIndex) insert(key []string, gi int) {
	h := x.hash(key)
	x.buckets[h] = append(x.buckets[h], gi)
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
