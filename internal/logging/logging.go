package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes the process logger. format can be "text"
// (human-friendly console) or "json" (structured, one object per line).
func Setup(format string) zerolog.Logger {
	out := io.Writer(os.Stderr)
	if format == "text" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
