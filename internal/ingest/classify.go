package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/tableread"
)

// sampleSlack covers the header and banner rows read on top of the
// requested sample.
const sampleSlack = 3

// ClassifyFile reads up to sampleRows data rows of every table in path and
// returns one report line per table. sampleRows <= 0 reads everything.
func ClassifyFile(p *Processor, path string, sampleRows int) ([]model.FileSummary, error) {
	opts := tableread.Options{}
	if sampleRows > 0 {
		opts.MaxRecords = sampleRows + sampleSlack
	}
	tables, err := tableread.ReadFile(path, opts)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, File: path, Err: err}
	}

	out := make([]model.FileSummary, 0, len(tables))
	for _, t := range tables {
		in := p.Inspect(path, t)
		if sampleRows > 0 && in.Table.NumRows() > sampleRows {
			in.Table.Rows = in.Table.Rows[:sampleRows+1]
			in.Verdict = p.classifier.Classify(in.Table)
		}
		out = append(out, in.Summary())
	}
	return out, nil
}

// DisplayName shortens a table label to the file's base name, keeping a
// "::sheet" suffix.
func DisplayName(label string) string {
	file, sheet, ok := strings.Cut(label, "::")
	if !ok {
		return filepath.Base(label)
	}
	return filepath.Base(file) + "::" + sheet
}

// ClassifyFiles classifies paths with at most workers files in flight. The
// report lines of every readable file are returned in input order; the
// per-file results carry read errors.
func ClassifyFiles(ctx context.Context, p *Processor, paths []string, workers, sampleRows int) ([]model.FileSummary, []FileResult) {
	index := make(map[string]int, len(paths))
	for i, path := range paths {
		index[path] = i
	}
	lines := make([][]model.FileSummary, len(paths))

	results := RunFiles(ctx, paths, workers, func(_ context.Context, path string) ([]*model.RunSummary, error) {
		s, err := ClassifyFile(p, path, sampleRows)
		lines[index[path]] = s
		return nil, err
	})

	var out []model.FileSummary
	for _, l := range lines {
		out = append(out, l...)
	}
	return out, results
}
