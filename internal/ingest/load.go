package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/db"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/tableread"
)

// LoadFile runs the database pipeline for one file: preflight → cleanup of
// earlier rows → read → normalize → COPY per table → dimensions →
// finalize. A failure after preflight removes this file's rows and marks
// it failed in the registry.
func LoadFile(ctx context.Context, p *Processor, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config, path string) ([]*model.RunSummary, error) {
	totalStart := time.Now()
	log = log.With().Str("file", path).Logger()
	table := db.Identifier(cfg.QualifiedTable())

	pf, err := Preflight(ctx, pool, log, path, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, File: path, Err: err}
	}
	if pf.AlreadyLoaded {
		log.Info().
			Int64("source_file_id", pf.SourceFileID).
			Str("sha256", pf.FileSHA256).
			Msg("file already loaded, skipping (use --force to re-import)")
		return []*model.RunSummary{{
			FilePath:      path,
			Table:         path,
			FileSHA256:    pf.FileSHA256,
			SourceFileID:  pf.SourceFileID,
			Skipped:       true,
			Reason:        "already loaded",
			DurationTotal: time.Since(totalStart),
		}}, nil
	}

	fail := func(phase string, err error) ([]*model.RunSummary, error) {
		// record the failure even when ctx was cancelled
		bg := context.WithoutCancel(ctx)
		if cerr := Cleanup(bg, pool, log, table, pf.SourceFileID); cerr != nil {
			log.Warn().Err(cerr).Msg("cleanup after failure failed")
		}
		if serr := db.SetStatus(bg, pool, pf.SourceFileID, db.StatusFailed, err.Error()); serr != nil {
			log.Warn().Err(serr).Msg("could not mark source file failed")
		}
		return nil, &PipelineError{Phase: phase, File: path, Err: err}
	}

	if pf.Reimport() {
		if err := Cleanup(ctx, pool, log, table, pf.SourceFileID); err != nil {
			return fail(PhasePreflight, err)
		}
	}
	if err := db.SetStatus(ctx, pool, pf.SourceFileID, db.StatusLoading, ""); err != nil {
		return fail(PhasePreflight, err)
	}

	readStart := time.Now()
	tables, err := tableread.ReadFile(path, tableread.Options{})
	if err != nil {
		return fail(PhaseRead, err)
	}
	readDur := time.Since(readStart)

	var (
		out      []*model.RunSummary
		total    int64
		hospital string
	)
	for _, t := range tables {
		start := time.Now()
		in := p.Inspect(path, t)
		res, err := p.Melt(ctx, path, in)
		if err != nil {
			return fail(PhaseNormalize, err)
		}
		sum := newSummary(path, in, res)
		sum.FileSHA256 = pf.FileSHA256
		sum.SourceFileID = pf.SourceFileID
		sum.BatchID = pf.IngestBatchID.String()
		sum.DurationRead = readDur
		sum.DurationNormalize = time.Since(start)
		if hospital == "" {
			hospital = in.Hospital
		}

		if len(res.Rows) == 0 {
			sum.Skipped = true
			log.Warn().Str("table", t.Label).Str("reason", sum.Reason).Msg("no rows emitted, nothing loaded")
		} else {
			sr, err := Stage(ctx, pool, log, table, pf, t.Label, res.Rows)
			if err != nil {
				return fail(PhaseLoad, err)
			}
			sum.RowsLoaded = sr.RowsLoaded
			sum.DurationWrite = sr.Duration
			total += sr.RowsLoaded
		}
		out = append(out, sum)
	}

	if cfg.UpsertDimensions && total > 0 {
		if err := UpsertDimensions(ctx, pool, log, table, pf.IngestBatchID); err != nil {
			return fail(PhaseFinalize, err)
		}
	}
	if _, err := Finalize(ctx, pool, log, table, pf, total, hospital); err != nil {
		return fail(PhaseFinalize, err)
	}

	for _, s := range out {
		s.DurationTotal = time.Since(totalStart)
	}
	log.Info().
		Int64("rows_loaded", total).
		Int("tables", len(out)).
		Dur("total_duration", time.Since(totalStart)).
		Msg("load pipeline complete")
	return out, nil
}
