package ezcord

import (
	"context"
	"log/slog"

	"github.com/pitabwire/util"

	"github.com/tibue99/ezcord-sub000/config"
)

// WithLogger adds options to the extension logger. The level, time format, colour and stack trace
// settings come from a config implementing config.ConfigurationLogLevel.
func WithLogger(opts ...util.Option) Option {
	return func(_ context.Context, e *Extension) {
		e.loggerOpts = append(e.loggerOpts, opts...)
	}
}

func (e *Extension) setupLogger(ctx context.Context) {
	var opts []util.Option

	if cfg, ok := e.configuration.(config.ConfigurationLogLevel); ok {
		logLevel, err := util.ParseLevel(cfg.LoggingLevel())
		if err == nil {
			opts = append(opts, util.WithLogLevel(logLevel))
		}
		opts = append(opts,
			util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
			util.WithLogNoColor(!cfg.LoggingColored()))
		if cfg.LoggingShowStackTrace() {
			opts = append(opts, util.WithLogStackTrace())
		}
	}

	if e.telemetryManager != nil && e.telemetryManager.LogHandler() != nil {
		opts = append(opts, util.WithLogHandler(e.telemetryManager.LogHandler()))
	}

	opts = append(opts, e.loggerOpts...)

	e.logger = util.NewLogger(ctx, opts...).WithField("extension", e.Name())
}

// Log returns the extension logger bound to ctx.
func (e *Extension) Log(ctx context.Context) *util.LogEntry {
	return e.logger.WithContext(ctx)
}

// SLog returns the extension logger as a slog.Logger.
func (e *Extension) SLog(ctx context.Context) *slog.Logger {
	return e.Log(ctx).SLog()
}
