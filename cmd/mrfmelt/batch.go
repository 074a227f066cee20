package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gyeh/pricemelt/internal/exitcode"
	"github.com/gyeh/pricemelt/internal/ingest"
	"github.com/gyeh/pricemelt/internal/tableread"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// inputFiles validates the config and expands directories into files.
func inputFiles(log zerolog.Logger, needDSN bool) []string {
	validate := cfg.Validate
	if needDSN {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	files, err := tableread.Discover(cfg.Paths, cfg.Recursive)
	if err != nil {
		log.Error().Err(err).Msg("input discovery failed")
		os.Exit(exitcode.ReadError)
	}
	if len(files) == 0 {
		log.Error().Strs("paths", cfg.Paths).Msg("no supported input files found")
		os.Exit(exitcode.UsageError)
	}
	return files
}

// exitCode maps a pipeline error to a process exit code.
func exitCode(err error) int {
	switch ingest.Phase(err) {
	case ingest.PhaseRead:
		return exitcode.ReadError
	case ingest.PhasePreflight, ingest.PhaseWrite, ingest.PhaseLoad, ingest.PhaseFinalize:
		return exitcode.CopyError
	default:
		return exitcode.NormalizeError
	}
}

// finish logs failed files and exits with a code for the whole batch.
func finish(log zerolog.Logger, results []ingest.FileResult) {
	ok, failed := ingest.Tally(results)
	var first error
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if first == nil {
			first = r.Err
		}
		log.Error().Err(r.Err).Str("phase", ingest.Phase(r.Err)).Str("file", r.Path).Msg("file failed")
	}
	log.Info().Int("succeeded", ok).Int("failed", failed).Msg("batch complete")

	switch {
	case failed == 0:
		return
	case ok > 0:
		os.Exit(exitcode.PartialSuccess)
	default:
		os.Exit(exitCode(first))
	}
}

func printSummaries(results []ingest.FileResult) {
	for _, r := range results {
		for _, s := range r.Summaries {
			status := "ok"
			if s.Skipped {
				status = "skipped"
			}
			fmt.Printf("%-48s %-7s %-8s %-8s emitted=%-8d dropped=%-8d loaded=%-8d %s\n",
				ingest.DisplayName(s.Table), s.Classification, s.Variant, status,
				s.RowsEmitted, s.RowsDropped, s.RowsLoaded, s.Reason)
		}
	}
}
