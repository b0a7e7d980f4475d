package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/csvstats/internal/config"
	"github.com/KaramelBytes/csvstats/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and logger, set before any subcommand runs
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "csvstats",
	Short: "csvstats: descriptive statistics for CSV, TSV and XLSX datasets",
	Long: `csvstats classifies every column of a tabular dataset as numeric, binary or
categorical and reports summary statistics for the whole dataset and for
groups of rows sharing the values of one or two key columns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	l, err := logging.New(cfg.LogLevel, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		l = zap.NewNop()
	}
	logger = l
	logger.Debug("config loaded",
		zap.String("file", cfgFile),
		zap.Int("max_groups", cfg.MaxGroups),
		zap.Int("max_values", cfg.MaxValues),
		zap.Int("workers", cfg.Workers),
	)
}
