package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/pricemelt/internal/model"
)

// FileFunc processes one input file.
type FileFunc func(ctx context.Context, path string) ([]*model.RunSummary, error)

// FileResult is the outcome of one file in a batch.
type FileResult struct {
	Path      string
	Summaries []*model.RunSummary
	Err       error
}

// RunFiles applies fn to every path with at most workers files in flight.
// A failing file does not stop the others; its error is kept in its
// result. Results are returned in input order. Only cancellation of ctx
// ends the batch early, and unstarted files then report ctx's error.
func RunFiles(ctx context.Context, paths []string, workers int, fn FileFunc) []FileResult {
	results := make([]FileResult, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(max(workers, 1))

	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			results[i].Summaries, results[i].Err = fn(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Tally splits results into succeeded and failed counts.
func Tally(results []FileResult) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
