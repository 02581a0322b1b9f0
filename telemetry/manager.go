package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklogs "go.opentelemetry.io/otel/sdk/log"
	sdkmetrics "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.40.0"

	"github.com/tibue99/ezcord-sub000/config"
)

// InstrumentationName prefixes every span and instrument created by ezcord.
const InstrumentationName = "ezcord.localization"

// Exporter selection variables read by autoexport.
const (
	envTracesExporter  = "OTEL_TRACES_EXPORTER"
	envMetricsExporter = "OTEL_METRICS_EXPORTER"
	envLogsExporter    = "OTEL_LOGS_EXPORTER"
)

// Manager installs the OpenTelemetry providers used by the extension.
type Manager interface {
	Init(ctx context.Context) error
	Disabled() bool
	LogHandler() slog.Handler
	Shutdown(ctx context.Context) error
}

type manager struct {
	cfg      config.ConfigurationTelemetry
	disabled bool

	serviceName    string
	serviceVersion string
	attributes     []attribute.KeyValue

	propagator   propagation.TextMapPropagator
	sampler      sdktrace.Sampler
	spanExporter sdktrace.SpanExporter
	metricReader sdkmetrics.Reader
	logExporter  sdklogs.Exporter

	shutdowns  []func(context.Context) error
	logHandler slog.Handler
}

// NewManager creates a telemetry setup manager. A nil cfg samples every trace.
func NewManager(ctx context.Context, cfg config.ConfigurationTelemetry, opts ...Option) Manager {
	m := &manager{cfg: cfg}
	if cfg != nil && cfg.DisableOpenTelemetry() {
		m.disabled = true
	}

	for _, opt := range opts {
		opt(ctx, m)
	}

	return m
}

func (m *manager) LogHandler() slog.Handler {
	return m.logHandler
}

func (m *manager) Disabled() bool {
	return m.disabled
}

// Init sets the global propagator and the trace, metric and log providers. A signal only gets an
// exporter when one was supplied as an option or its OTEL_*_EXPORTER variable names one, so a bot
// without collector settings records nothing outside the process.
func (m *manager) Init(ctx context.Context) error {
	if m.disabled {
		return nil
	}

	res, err := m.resource(ctx)
	if err != nil {
		return err
	}

	if m.propagator == nil {
		m.propagator = autoprop.NewTextMapPropagator()
	}
	otel.SetTextMapPropagator(m.propagator)

	for _, install := range []func(context.Context, *resource.Resource) error{
		m.installTracing,
		m.installMetrics,
		m.installLogs,
	} {
		if err = install(ctx, res); err != nil {
			return errors.Join(err, m.Shutdown(ctx))
		}
	}

	return nil
}

// Shutdown flushes and stops the providers installed by Init, last installed first.
func (m *manager) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(m.shutdowns) - 1; i >= 0; i-- {
		errs = append(errs, m.shutdowns[i](ctx))
	}
	m.shutdowns = nil
	return errors.Join(errs...)
}

// resource describes the bot. OTEL_RESOURCE_ATTRIBUTES and OTEL_SERVICE_NAME are applied last so an
// operator can override the names given by the extension.
func (m *manager) resource(ctx context.Context) (*resource.Resource, error) {
	var attrs []attribute.KeyValue
	if m.serviceName != "" {
		attrs = append(attrs, semconv.ServiceName(m.serviceName))
	}
	if m.serviceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(m.serviceVersion))
	}
	attrs = append(attrs, m.attributes...)

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithProcessPID(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithAttributes(attrs...),
		resource.WithFromEnv(),
	)
	if errors.Is(err, resource.ErrPartialResource) {
		util.Log(ctx).WithError(err).Warn("telemetry resource is incomplete")
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

func (m *manager) samplingRatio() float64 {
	if m.cfg == nil {
		return 1.0
	}
	return m.cfg.SamplingRatio()
}

func (m *manager) installTracing(ctx context.Context, res *resource.Resource) error {
	exporter := m.spanExporter
	if exporter == nil && exporterSelected(envTracesExporter) {
		var err error
		if exporter, err = autoexport.NewSpanExporter(ctx); err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
	}

	sampler := m.sampler
	if sampler == nil {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.samplingRatio()))
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sampler), sdktrace.WithResource(res)}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)
	m.shutdowns = append(m.shutdowns, provider.Shutdown)
	return nil
}

func (m *manager) installMetrics(ctx context.Context, res *resource.Resource) error {
	reader := m.metricReader
	if reader == nil && exporterSelected(envMetricsExporter) {
		var err error
		if reader, err = autoexport.NewMetricReader(ctx); err != nil {
			return fmt.Errorf("metric reader: %w", err)
		}
	}

	opts := []sdkmetrics.Option{
		sdkmetrics.WithResource(res),
		sdkmetrics.WithView(Views(InstrumentationName)...),
	}
	if reader != nil {
		opts = append(opts, sdkmetrics.WithReader(reader))
	}

	provider := sdkmetrics.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)
	m.shutdowns = append(m.shutdowns, provider.Shutdown)
	return nil
}

func (m *manager) installLogs(ctx context.Context, res *resource.Resource) error {
	exporter := m.logExporter
	if exporter == nil && exporterSelected(envLogsExporter) {
		var err error
		if exporter, err = autoexport.NewLogExporter(ctx); err != nil {
			return fmt.Errorf("log exporter: %w", err)
		}
	}

	opts := []sdklogs.LoggerProviderOption{sdklogs.WithResource(res)}
	if exporter != nil {
		opts = append(opts, sdklogs.WithProcessor(sdklogs.NewBatchProcessor(exporter)))
	}

	provider := sdklogs.NewLoggerProvider(opts...)
	global.SetLoggerProvider(provider)
	m.shutdowns = append(m.shutdowns, provider.Shutdown)

	m.logHandler = otelslog.NewHandler(InstrumentationName,
		otelslog.WithSource(true),
		otelslog.WithLoggerProvider(provider),
		otelslog.WithAttributes(res.Attributes()...))
	return nil
}

func exporterSelected(variable string) bool {
	value := os.Getenv(variable)
	return value != "" && value != "none"
}
