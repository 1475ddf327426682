// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global zerolog logger. In the "dev" environment it
// writes human-readable console output; everywhere else it emits JSON lines
// suitable for log shippers.
func Setup(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	log.Logger = log.Logger.With().Str("service", "heritage-api").Logger()
}
