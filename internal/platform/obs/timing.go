package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Time logs the duration of the named operation when the returned func runs.
// Typical use: defer obs.Time(ctx, "op")(&err).
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Err(*errp).Msg("op failed")
			return
		}
		logger.Debug().Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("op done")
	}
}
