package instrumentation

import (
	"context"
	"fmt"
	"log/slog"
)

// LoggingOnRetryHook logs scheduled retries at warn level through the
// process default slog logger. Part of the default hook set. The logger is
// captured on the first scheduled retry, after the application had a chance
// to configure logging.
var LoggingOnRetryHook = RetryHookFactory(func() RetryHook { //nolint:gochecknoglobals
	return NewSlogHook(slog.Default(), slog.LevelWarn)
})

// NewSlogHook builds a hook that logs every scheduled retry to logger at
// the given level, with the full RetryDetails payload as attributes.
func NewSlogHook(logger *slog.Logger, level slog.Level) RetryHook {
	return func(ctx context.Context, details RetryDetails) {
		logger.LogAttrs(ctx, level, "retry scheduled",
			slog.String("callable", details.Name),
			slog.Any("args", details.Args),
			slog.Any("kwargs", details.Kwargs),
			slog.Int("retry_num", details.RetryNum),
			slog.String("caused_by", fmt.Sprintf("%v", details.CausedBy)),
			slog.Duration("wait_for", details.WaitFor),
			slog.Duration("waited_so_far", details.WaitedSoFar),
		)
	}
}
