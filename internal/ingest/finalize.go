package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/db"
)

// Finalize marks the source file loaded and runs ANALYZE on the target.
func Finalize(ctx context.Context, q db.Querier, log zerolog.Logger, table pgx.Identifier, pf *PreflightResult, rows int64, hospital string) (time.Duration, error) {
	start := time.Now()

	if err := db.MarkLoaded(ctx, q, pf.SourceFileID, pf.IngestBatchID, rows, hospital); err != nil {
		return 0, err
	}
	if err := db.Analyze(ctx, q, table); err != nil {
		return 0, fmt.Errorf("finalize: %w", err)
	}

	log.Info().
		Int64("source_file_id", pf.SourceFileID).
		Int64("rows_loaded", rows).
		Dur("duration", time.Since(start)).
		Msg("ANALYZE complete")
	return time.Since(start), nil
}
