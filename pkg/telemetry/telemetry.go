// Package telemetry configures OpenTelemetry tracing for distflow runs and
// the HTTP server. With tracing disabled every helper works against the
// global no-op tracer, so callers never branch on it.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"distflow/pkg/config"
)

// TracerName имя tracer по умолчанию
const TracerName = "distflow"

// Config конфигурация телеметрии
type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Version     string
	Environment string
	SampleRate  float64
}

// FromConfig собирает Config из секций app и tracing
func FromConfig(app *config.AppConfig, tr *config.TracingConfig) Config {
	name := tr.ServiceName
	if name == "" {
		name = app.Name
	}
	return Config{
		Enabled:     tr.Enabled,
		Endpoint:    tr.Endpoint,
		ServiceName: name,
		Version:     app.Version,
		Environment: app.Environment,
		SampleRate:  tr.SampleRate,
	}
}

// Provider обёртка над TracerProvider; tp == nil для отключённой телеметрии
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

var (
	current   *Provider
	currentMu sync.RWMutex
)

// Init поднимает OTLP gRPC экспорт. Выключенная телеметрия даёт no-op provider.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: otel.Tracer(cfg.ServiceName)}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return InitWithExporter(cfg, sdktrace.WithBatcher(exporter))
}

// InitWithExporter собирает provider с готовой регистрацией экспортера
// (sdktrace.WithBatcher, в тестах sdktrace.WithSyncer) и делает его текущим
func InitWithExporter(cfg Config, exporter sdktrace.TracerProviderOption) (*Provider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p := &Provider{tp: tp, tracer: tp.Tracer(cfg.ServiceName)}

	currentMu.Lock()
	current = p
	currentMu.Unlock()

	return p, nil
}

// sampler: 1 и выше пишет всё, 0 и ниже ничего, между ними доля trace ID
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown сбрасывает накопленные span и останавливает экспорт
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Tracer возвращает tracer
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Get возвращает текущий provider или no-op
func Get() *Provider {
	currentMu.RLock()
	defer currentMu.RUnlock()

	if current == nil {
		return &Provider{tracer: otel.Tracer(TracerName)}
	}
	return current
}

// StartSpan начинает span текущего provider
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Get().tracer.Start(ctx, name, opts...)
}

// AddEvent добавляет событие в span из ctx
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// SetError помечает span из ctx как ошибочный
func SetError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes устанавливает атрибуты span из ctx
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// WithAttributes создаёт SpanStartOption с атрибутами
func WithAttributes(attrs ...attribute.KeyValue) trace.SpanStartOption {
	return trace.WithAttributes(attrs...)
}
