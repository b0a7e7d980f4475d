package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	cfgpkg "github.com/KaramelBytes/csvstats/internal/config"
	"github.com/KaramelBytes/csvstats/internal/dataset"
	"github.com/KaramelBytes/csvstats/internal/report"
)

// describeFlags are shared by describe and describe-batch. Unset flags fall
// back to the loaded configuration.
type describeFlags struct {
	groupBy    []string
	maxGroups  int
	maxValues  int
	workers    int
	format     string
	delimiter  string
	sheetName  string
	sheetIndex int
}

func (f *describeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.groupBy, "group-by", nil, "one or two column names to group by (replaces the default groupings)")
	fs.IntVar(&f.maxGroups, "max-groups", 1, "groups reported per grouping, in order of first appearance (0 = all)")
	fs.IntVar(&f.maxValues, "max-values", 10, "frequency entries shown per categorical column (0 = all)")
	fs.IntVar(&f.workers, "workers", 1, "groups analyzed concurrently (0 = one per CPU)")
	fs.StringVar(&f.format, "format", "text", "output format: text|markdown|json|yaml")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (sniffed if omitted)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to describe")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// resolve merges flags over the configuration.
func (f *describeFlags) resolve(cmd *cobra.Command) (analysis.Options, dataset.LoadOptions, report.Format, error) {
	c := cfg
	if c == nil {
		c = cfgpkg.Default()
	}
	fs := cmd.Flags()
	opt := analysis.Options{MaxGroups: c.MaxGroups, MaxValues: c.MaxValues, Workers: c.Workers}
	if fs.Changed("max-groups") {
		opt.MaxGroups = f.maxGroups
	}
	if fs.Changed("max-values") {
		opt.MaxValues = f.maxValues
	}
	if fs.Changed("workers") {
		opt.Workers = f.workers
	}
	opt.Workers = resolveWorkers(opt.Workers)

	format := c.Format
	if fs.Changed("format") {
		format = f.format
	}
	rf, err := report.ParseFormat(format)
	if err != nil {
		return opt, dataset.LoadOptions{}, "", err
	}

	delim := c.Delimiter
	if fs.Changed("delimiter") {
		delim = f.delimiter
	}
	d, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, dataset.LoadOptions{}, "", err
	}
	lo := dataset.LoadOptions{
		Delimiter:  d,
		Sheet:      f.sheetName,
		SheetIndex: f.sheetIndex,
		Logger:     logger,
	}
	return opt, lo, rf, nil
}

// resolveWorkers maps the configured 0 (one per CPU) onto a concrete count.
func resolveWorkers(n int) int {
	if n == 0 {
		return runtime.NumCPU()
	}
	return n
}
