package ezcord

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/tibue99/ezcord-sub000/config"
	"github.com/tibue99/ezcord-sub000/telemetry"
)

// WithTelemetry installs the OpenTelemetry providers when the extension is assembled. Exporters are
// chosen with the standard OTEL_* variables and default to none.
func WithTelemetry(opts ...telemetry.Option) Option {
	return func(_ context.Context, e *Extension) {
		e.telemetryEnabled = true
		e.telemetryOpts = append(e.telemetryOpts, opts...)
	}
}

// WithTracerProvider sets the provider of the Messenger spans instead of the global one.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(_ context.Context, e *Extension) {
		e.tracerProvider = provider
	}
}

// Telemetry returns the telemetry manager, nil unless WithTelemetry was used.
func (e *Extension) Telemetry() telemetry.Manager {
	return e.telemetryManager
}

func (e *Extension) setupTelemetry(ctx context.Context) {
	if !e.telemetryEnabled {
		return
	}

	cfg, _ := e.configuration.(config.ConfigurationTelemetry)
	opts := []telemetry.Option{
		telemetry.WithServiceName(e.Name()),
		telemetry.WithServiceVersion(e.Version()),
	}
	if locCfg, ok := e.configuration.(config.ConfigurationLocalization); ok {
		opts = append(opts, telemetry.WithResourceAttributes(
			telemetry.AttrLanguageKey.String(locCfg.Language()),
			telemetry.AttrFallbackLocaleKey.String(locCfg.FallbackLocale()),
		))
	}
	opts = append(opts, e.telemetryOpts...)

	manager := telemetry.NewManager(ctx, cfg, opts...)
	if err := manager.Init(ctx); err != nil {
		e.addStartupError(ctx, err)
		return
	}

	e.telemetryManager = manager
	e.AddCleanupMethod(func(ctx context.Context) {
		if err := manager.Shutdown(ctx); err != nil {
			e.Log(ctx).WithError(err).Error("could not shut down telemetry")
		}
	})
}
