package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvstats/internal/report"
	"github.com/KaramelBytes/csvstats/internal/utils"
)

var (
	dbFlags  describeFlags
	dbOutDir string
	dbQuiet  bool
)

var describeBatchCmd = &cobra.Command{
	Use:   "describe-batch <files...>",
	Short: "Describe multiple CSV/TSV/XLSX files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, lo, format, err := dbFlags.resolve(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !dbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			doc, err := describeFile(path, dbFlags.groupBy, opt, lo)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := report.Render(&buf, doc, format); err != nil {
				return err
			}

			if dbOutDir == "" {
				if !dbQuiet {
					_, _ = out.Write(buf.Bytes())
				}
				continue
			}
			base := filepath.Base(path)
			base = strings.TrimSuffix(base, filepath.Ext(base))
			if dbFlags.sheetName != "" {
				if s := utils.Slug(dbFlags.sheetName); s != "" {
					base += "__sheet-" + s
				} else {
					base += "__sheet"
				}
			}
			suffix := ".summary" + format.Ext()
			outFile := utils.UniquePath(dbOutDir, base, suffix)
			if outFile != filepath.Join(dbOutDir, base+suffix) && !dbQuiet {
				fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, buf.Bytes()); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !dbQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeBatchCmd)
	dbFlags.register(describeBatchCmd)
	describeBatchCmd.Flags().StringVar(&dbOutDir, "out-dir", "", "directory to write one report per file (stdout if omitted)")
	describeBatchCmd.Flags().BoolVar(&dbQuiet, "quiet", false, "suppress progress and non-essential output")
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}
