package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/db"
)

// UpsertDimensions upserts the batch's payers and plans into ref tables.
func UpsertDimensions(ctx context.Context, q db.Querier, log zerolog.Logger, table pgx.Identifier, batchID uuid.UUID) error {
	start := time.Now()

	payers, plans, err := db.UpsertDimensions(ctx, q, table, batchID)
	if err != nil {
		return err
	}
	log.Info().
		Int64("payers_upserted", payers).
		Int64("plans_upserted", plans).
		Dur("duration", time.Since(start)).
		Msg("dimensions upserted")
	return nil
}
