package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
// level is a zerolog level name; empty or unknown means info.
func Setup(format, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// Phase logs the completion of one pipeline phase for a file.
func Phase(log zerolog.Logger, phase, file string, rows int64, d time.Duration) {
	ev := log.Info().
		Str("phase", phase).
		Str("file", file).
		Int64("rows", rows).
		Dur("duration", d)
	if secs := d.Seconds(); secs > 0 && rows > 0 {
		ev = ev.Float64("rows_per_sec", float64(rows)/secs)
	}
	ev.Msg(phase + " complete")
}
