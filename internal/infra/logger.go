package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the service logger. Development gets a console writer
// at debug level; every other environment logs JSON at info level.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(appEnv, os.Stdout)
}

func newLogger(appEnv string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "garmentgrid").
		Str("env", appEnv).
		Logger()
}

// Logger aliases zerolog.Logger so packages can name the logging contract
// through infra.
type Logger = zerolog.Logger
