package config

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewTraceLogger builds the zerolog.Logger an analysis.Pipeline traces
// through. Output defaults to a human-readable console writer when w
// is a terminal (mirroring the teacher's go-isatty terminal check,
// previously used to decide whether evaluator built-ins could assume
// an interactive TTY) and to structured JSON otherwise, since a
// non-interactive writer is almost always a log aggregator.
func NewTraceLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
