package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/config"
)

var (
	cfg        = config.Default()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "mrfmelt",
	Short: "Hospital price table classifier and long-format normalizer",
	Long: "Classifies hospital price-transparency tables (CSV, TSV, XLSX) as tall or wide, " +
		"resolves their CMS header semantics and melts every price cell into one long row, " +
		"written to CSV/Parquet or bulk-loaded into Postgres via the COPY protocol.",
	SilenceUsage:      true,
	PersistentPreRunE: applyConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&configFile, "config", "", "YAML file with vocabulary and threshold overrides")
	pf.StringVar(&cfg.BannerStrategy, "banner-strategy", cfg.BannerStrategy,
		"Metadata banner detection: "+banner.StrategyVocabulary+" or "+banner.StrategyScoring)
	pf.StringVar(&cfg.Hospital, "hospital", "", "Hospital name for every row (overrides banner and file name)")
	pf.IntVar(&cfg.Workers, "workers", cfg.Workers, "Files processed concurrently")
	pf.IntVar(&cfg.MeltWorkers, "melt-workers", cfg.MeltWorkers, "Row chunks melted concurrently per table")
	pf.BoolVarP(&cfg.Recursive, "recursive", "r", false, "Descend into subdirectories of input directories")
}

// applyConfig merges the YAML override file and environment into cfg.
// Flags given explicitly win over the file.
func applyConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		strategy := cfg.BannerStrategy
		if err := cfg.LoadFromFile(configFile); err != nil {
			return err
		}
		if cmd.Flags().Changed("banner-strategy") {
			cfg.BannerStrategy = strategy
		}
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	cfg.Paths = args
	return nil
}
