package obs

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger.
// level is any zerolog level name (default "info"); format is "json" or "console".
func SetupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Code paths without a request-scoped logger fall back to the global one.
	zerolog.DefaultContextLogger = &log.Logger
}

// WithRequestLogger returns ctx carrying a logger tagged with reqID.
func WithRequestLogger(ctx context.Context, reqID string) context.Context {
	l := log.With().Str("req_id", reqID).Logger()
	return l.WithContext(ctx)
}
