package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/db"
)

// Cleanup deletes every row previously loaded from a source file, before
// a re-import or after a failed load.
func Cleanup(ctx context.Context, q db.Querier, log zerolog.Logger, table pgx.Identifier, sourceFileID int64) error {
	start := time.Now()

	n, err := db.DeleteSourceRows(ctx, q, table, sourceFileID)
	if err != nil {
		return err
	}

	log.Info().
		Int64("source_file_id", sourceFileID).
		Int64("rows_deleted", n).
		Dur("duration", time.Since(start)).
		Msg("source rows cleanup complete")
	return nil
}
