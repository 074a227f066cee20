package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/pricemelt/internal/exitcode"
	"github.com/gyeh/pricemelt/internal/ingest"
	"github.com/gyeh/pricemelt/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan <file|dir>...",
	Short: "Dry-run: show banner, classification, header roles and projected rows (no writes)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, cancel := signalContext()
	defer cancel()

	files := inputFiles(log, false)
	p, err := ingest.NewProcessor(&cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid vocabulary")
		os.Exit(exitcode.UsageError)
	}

	failed := 0
	var first error
	for i, path := range files {
		rep, err := ingest.Plan(ctx, p, path)
		if err != nil {
			log.Error().Err(err).Str("phase", ingest.Phase(err)).Str("file", path).Msg("plan failed")
			if first == nil {
				first = err
			}
			failed++
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		rep.Render(os.Stdout)
	}

	switch {
	case failed == 0:
	case failed < len(files):
		os.Exit(exitcode.PartialSuccess)
	default:
		os.Exit(exitCode(first))
	}
	return nil
}
