// Package logging builds the zerolog logger shared by the binaries.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing JSON to stderr, or a console writer when the
// app runs locally. An unknown LOG_LEVEL falls back to info.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.IsLocal() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(out, cfg.LogLevel)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "meal-planner").Logger()
}

// SetGlobal makes logger the package-level zerolog logger.
func SetGlobal(logger zerolog.Logger) {
	log.Logger = logger
}
