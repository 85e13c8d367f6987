package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets a human console writer at
// debug level; production gets plain JSON at info level.
func New(environment string) zerolog.Logger {
	var output io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if environment != "production" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "ngplus-api").
		Str("env", environment).
		Logger()
}
