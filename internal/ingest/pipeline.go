package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/logging"
	"github.com/gyeh/pricemelt/internal/melt"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/tableread"
)

// Pipeline phases reported in PipelineError.
const (
	PhaseRead      = "read"
	PhasePreflight = "preflight"
	PhaseNormalize = "normalize"
	PhaseWrite     = "write"
	PhaseLoad      = "load"
	PhaseFinalize  = "finalize"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	File  string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Phase, e.File, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Phase returns the phase of the first PipelineError in err's chain, or "".
func Phase(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}

// MeltFile reads one file, normalizes every table in it and writes each
// non-empty result next to the others in cfg.OutDir.
func MeltFile(ctx context.Context, p *Processor, log zerolog.Logger, cfg *config.Config, path string) ([]*model.RunSummary, error) {
	start := time.Now()
	tables, err := tableread.ReadFile(path, tableread.Options{})
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, File: path, Err: err}
	}
	readDur := time.Since(start)

	var out []*model.RunSummary
	for _, t := range tables {
		tStart := time.Now()
		in := p.Inspect(path, t)
		res, err := p.Melt(ctx, path, in)
		if err != nil {
			return out, &PipelineError{Phase: PhaseNormalize, File: t.Label, Err: err}
		}
		sum := newSummary(path, in, res)
		sum.DurationRead = readDur
		sum.DurationNormalize = time.Since(tStart)
		logging.Phase(log, PhaseNormalize, t.Label, sum.RowsEmitted, sum.DurationNormalize)

		if len(res.Rows) > 0 {
			wStart := time.Now()
			dest := OutputPath(cfg.OutDir, path, t.Label, cfg.Format)
			if err := writeOutput(dest, cfg.Format, cfg.Overwrite, res.Rows); err != nil {
				return out, &PipelineError{Phase: PhaseWrite, File: t.Label, Err: err}
			}
			sum.OutputPath = dest
			sum.DurationWrite = time.Since(wStart)
			logging.Phase(log, PhaseWrite, dest, sum.RowsEmitted, sum.DurationWrite)
		} else {
			sum.Skipped = true
			log.Warn().Str("file", t.Label).Str("reason", sum.Reason).Msg("no rows emitted, nothing written")
		}
		sum.DurationTotal = time.Since(start)
		out = append(out, sum)
	}
	return out, nil
}

func newSummary(path string, in *Inspection, res *melt.Result) *model.RunSummary {
	reason := res.Reason
	if reason == "" && len(res.Rows) == 0 {
		reason = "every candidate row was dropped"
	}
	return &model.RunSummary{
		FilePath:       path,
		Table:          in.Label,
		Classification: in.Verdict.Shape,
		Variant:        res.Variant.String(),
		HospitalName:   in.Hospital,
		BannerRows:     in.BannerRows,
		RowsRead:       int64(res.Stats.DataRows),
		RowsEmitted:    int64(len(res.Rows)),
		RowsDropped:    res.Dropped,
		DropReasons:    res.Stats.DropReasons,
		UncleanValues:  res.Stats.UncleanValues,
		Reason:         reason,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
