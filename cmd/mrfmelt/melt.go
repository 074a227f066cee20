package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/exitcode"
	"github.com/gyeh/pricemelt/internal/ingest"
	"github.com/gyeh/pricemelt/internal/logging"
	"github.com/gyeh/pricemelt/internal/model"
)

var meltCmd = &cobra.Command{
	Use:   "melt <file|dir>...",
	Short: "Normalize tables to long format and write CSV or Parquet",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMelt,
}

func init() {
	f := meltCmd.Flags()
	f.StringVar(&cfg.OutDir, "out-dir", "", "Output directory (default: next to each input)")
	f.StringVar(&cfg.Format, "format", config.FormatCSV, "Output format: csv or parquet")
	f.BoolVar(&cfg.Overwrite, "overwrite", false, "Replace existing output files")
	rootCmd.AddCommand(meltCmd)
}

func runMelt(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, cancel := signalContext()
	defer cancel()

	files := inputFiles(log, false)
	p, err := ingest.NewProcessor(&cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid vocabulary")
		os.Exit(exitcode.UsageError)
	}

	results := ingest.RunFiles(ctx, files, cfg.Workers, func(ctx context.Context, path string) ([]*model.RunSummary, error) {
		return ingest.MeltFile(ctx, p, log, &cfg, path)
	})
	printSummaries(results)
	finish(log, results)
	return nil
}
