package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/db"
	"github.com/gyeh/pricemelt/internal/logging"
	"github.com/gyeh/pricemelt/internal/model"
)

const copyBufferSize = 1024

// Copier is the COPY half of *pgxpool.Pool.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// StageResult holds metrics from one COPY.
type StageResult struct {
	RowsLoaded int64
	Duration   time.Duration
}

// Stage COPY-loads rows into table via a channel-backed CopyFromSource.
// Each row is tagged with the preflight's source file and batch IDs.
func Stage(ctx context.Context, c Copier, log zerolog.Logger, table pgx.Identifier, pf *PreflightResult, label string, rows []model.LongRow) (*StageResult, error) {
	start := time.Now()

	ch := make(chan *model.LongRow, copyBufferSize)
	errCh := make(chan error, 1)

	// Producer goroutine: push rows until done or cancelled
	go func() {
		defer close(ch)
		for i := range rows {
			select {
			case ch <- &rows[i]:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	source := db.NewChannelSource(ch, pf.SourceFileID, pf.IngestBatchID)
	loaded, err := c.CopyFrom(ctx, table, db.LoadColumns(), source)
	if err != nil {
		// unblock the producer if COPY stopped reading early
		for range ch {
		}
	}

	if prodErr := <-errCh; prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	logging.Phase(log, PhaseLoad, label, loaded, dur)
	return &StageResult{RowsLoaded: loaded, Duration: dur}, nil
}
