package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/pricemelt/internal/db"
	"github.com/gyeh/pricemelt/internal/exitcode"
	"github.com/gyeh/pricemelt/internal/ingest"
	"github.com/gyeh/pricemelt/internal/logging"
	"github.com/gyeh/pricemelt/internal/model"
)

var loadCmd = &cobra.Command{
	Use:   "load <file|dir>...",
	Short: "Normalize tables and COPY the long rows into Postgres",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.BoolVar(&cfg.Force, "force", false, "Re-import even if the file SHA-256 was already loaded")
	f.StringVar(&cfg.Schema, "schema", cfg.Schema, "Target schema")
	f.StringVar(&cfg.Table, "table", cfg.Table, "Target table")
	f.BoolVar(&cfg.UpsertDimensions, "upsert-dimensions", false, "Upsert loaded payers and plans into ref.payers / ref.plans")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, cancel := signalContext()
	defer cancel()

	files := inputFiles(log, true)
	p, err := ingest.NewProcessor(&cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid vocabulary")
		os.Exit(exitcode.UsageError)
	}

	// one COPY per worker plus headroom for registry updates
	pool, err := db.NewPool(ctx, cfg.DSN, int32(cfg.Workers+2))
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	results := ingest.RunFiles(ctx, files, cfg.Workers, func(ctx context.Context, path string) ([]*model.RunSummary, error) {
		return ingest.LoadFile(ctx, p, pool, log, &cfg, path)
	})
	printSummaries(results)
	pool.Close()
	finish(log, results)
	return nil
}
