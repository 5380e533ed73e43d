// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger. Development gets a human-readable console
// writer at debug level; anything else logs structured JSON at info level.
func Init(environment string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Debug starts a debug-level log event.
func Debug() *zerolog.Event { return log.Debug() }

// Info starts an info-level log event.
func Info() *zerolog.Event { return log.Info() }

// Warn starts a warn-level log event.
func Warn() *zerolog.Event { return log.Warn() }

// Error starts an error-level log event.
func Error() *zerolog.Event { return log.Error() }

// Fatal starts a fatal-level log event that exits the process when sent.
func Fatal() *zerolog.Event { return log.Fatal() }
