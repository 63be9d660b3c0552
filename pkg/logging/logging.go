package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the diagnostic logger.
// A nil writer yields a disabled logger so commands stay quiet by default.
func Setup(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}

	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Console wraps w in a human-friendly console writer
func Console(w io.Writer) io.Writer {
	return zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.RFC3339
	})
}
