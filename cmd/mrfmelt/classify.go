package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/pricemelt/internal/exitcode"
	"github.com/gyeh/pricemelt/internal/ingest"
	"github.com/gyeh/pricemelt/internal/logging"
	"github.com/gyeh/pricemelt/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file|dir>...",
	Short: "Classify tables as tall or wide and write a summary CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&cfg.SummaryPath, "summary", "classification_summary.csv", "Summary CSV path")
	f.IntVar(&cfg.SampleRows, "sample-rows", 0, "Classify on at most this many data rows per table (0 = all)")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, cancel := signalContext()
	defer cancel()

	files := inputFiles(log, false)
	p, err := ingest.NewProcessor(&cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid vocabulary")
		os.Exit(exitcode.UsageError)
	}

	lines, results := ingest.ClassifyFiles(ctx, p, files, cfg.Workers, cfg.SampleRows)
	report.Sort(lines)
	if err := report.WriteFile(cfg.SummaryPath, lines); err != nil {
		log.Error().Err(err).Msg("failed to write summary")
		os.Exit(exitcode.CopyError)
	}

	tally := report.Tally(lines)
	log.Info().
		Str("summary", cfg.SummaryPath).
		Int("tables", len(lines)).
		Int("tall", tally["tall"]).
		Int("wide", tally["wide"]).
		Int("unknown", tally["unknown"]).
		Msg("classification complete")
	fmt.Printf("Classified %d tables (tall=%d wide=%d unknown=%d) → %s\n",
		len(lines), tally["tall"], tally["wide"], tally["unknown"], cfg.SummaryPath)

	finish(log, results)
	return nil
}
