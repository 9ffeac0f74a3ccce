// Package logging provides the zerolog loggers of the haccp tools and the
// context tags that say which operation, provenance group and source file a
// log line belongs to.
//
// Console output is used when stderr is a terminal and JSON otherwise.
//
//	ctx := logging.WithLogger(ctx, &logger)
//	ctx = logging.WithOperation(ctx, "load")
//	ctx = logging.WithSource(logging.WithGroup(ctx, "cert-livestock"), "cert-livestock-info")
//	logging.FromContext(ctx).Debug().Int("rows", 412).Msg("Read source file")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// fallback is the logger used by contexts that carry none.
var fallback atomic.Pointer[zerolog.Logger]

func init() {
	cfg := DefaultConfig()
	cfg.Level = levelFromEnv()
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	logger := cfg.Logger()
	fallback.Store(&logger)
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return fallback.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	fallback.Store(&logger)
	log.Logger = logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// levelFromEnv reads LOG_LEVEL, treating a set DEBUG as "debug".
func levelFromEnv() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	if os.Getenv("DEBUG") != "" {
		return "debug"
	}
	return "info"
}
