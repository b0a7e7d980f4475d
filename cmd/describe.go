package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/csvstats/internal/analysis"
	"github.com/KaramelBytes/csvstats/internal/dataset"
	"github.com/KaramelBytes/csvstats/internal/report"
	"github.com/KaramelBytes/csvstats/internal/utils"
)

var (
	descFlags      describeFlags
	descOutputPath string
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Describe a CSV/TSV/XLSX file overall and per group",
	Long: `Describe classifies every column and reports summary statistics for the
whole dataset, then for groups of rows. Without --group-by the groupings are
the first column and the first two columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, lo, format, err := descFlags.resolve(cmd)
		if err != nil {
			return err
		}
		doc, err := describeFile(args[0], descFlags.groupBy, opt, lo)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := report.Render(&buf, doc, format); err != nil {
			return err
		}
		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", descOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descFlags.register(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the report")
}

// describeFile loads one file and runs the describe pipeline on it.
func describeFile(path string, groupBy []string, opt analysis.Options, lo dataset.LoadOptions) (*report.Document, error) {
	t, err := dataset.LoadFile(path, lo)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded dataset",
		zap.String("file", t.Name),
		zap.Int("rows", len(t.Records)),
		zap.Int("columns", t.Header.Len()),
	)
	doc, err := report.Describe(t, groupBy, opt)
	if err != nil {
		return nil, err
	}
	logger.Info("described", zap.String("run_id", doc.RunID.String()), zap.Int("sections", len(doc.Sections)))
	return doc, nil
}
