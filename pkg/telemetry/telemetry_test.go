package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"distflow/pkg/config"
)

func newRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider, err := InitWithExporter(Config{
		ServiceName: "distflow-test",
		Version:     "test",
		Environment: "test",
		SampleRate:  1,
	}, sdktrace.WithSyncer(exporter))
	if err != nil {
		t.Fatalf("InitWithExporter() error = %v", err)
	}
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		currentMu.Lock()
		current = nil
		currentMu.Unlock()
	})
	return exporter
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestInit_Disabled(t *testing.T) {
	provider, err := Init(context.Background(), Config{Enabled: false, ServiceName: "test"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if provider.Tracer() == nil {
		t.Error("tracer should not be nil even when disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestGet_Uninitialized(t *testing.T) {
	currentMu.Lock()
	current = nil
	currentMu.Unlock()

	if Get().Tracer() == nil {
		t.Error("Get() should return a usable provider")
	}
}

func TestSampler(t *testing.T) {
	tests := map[float64]string{
		1:   sdktrace.AlwaysSample().Description(),
		2:   sdktrace.AlwaysSample().Description(),
		0:   sdktrace.NeverSample().Description(),
		0.5: sdktrace.TraceIDRatioBased(0.5).Description(),
	}
	for rate, want := range tests {
		if got := sampler(rate).Description(); got != want {
			t.Errorf("sampler(%v) = %s, want %s", rate, got, want)
		}
	}
}

func TestStartSpan_Recorded(t *testing.T) {
	exporter := newRecorder(t)

	ctx, span := StartSpan(context.Background(), "throughput.run",
		WithAttributes(attribute.String(AttrRunID, "run-1")))
	AddEvent(ctx, "solved", attribute.Float64(AttrMaxFlow, 115))
	SetAttributes(ctx, AttributionAttributes("proportional", 28)...)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]
	if s.Name != "throughput.run" {
		t.Errorf("span name = %s", s.Name)
	}
	attrs := attrMap(s.Attributes)
	if attrs[AttrRunID].AsString() != "run-1" || attrs[AttrRows].AsInt64() != 28 {
		t.Errorf("attributes = %v", s.Attributes)
	}
	if len(s.Events) != 1 || s.Events[0].Name != "solved" {
		t.Errorf("events = %v", s.Events)
	}
}

func TestSetError(t *testing.T) {
	exporter := newRecorder(t)

	ctx, span := StartSpan(context.Background(), "failing")
	SetError(ctx, errors.New("boom"))
	span.End()

	s := exporter.GetSpans()[0]
	if s.Status.Code != codes.Error || s.Status.Description != "boom" {
		t.Errorf("status = %+v", s.Status)
	}
}

func TestFromConfig(t *testing.T) {
	app := &config.AppConfig{Name: "distflow", Version: "1.2.0", Environment: "staging"}

	cfg := FromConfig(app, &config.TracingConfig{Enabled: true, Endpoint: "otel:4317", SampleRate: 0.25})
	if cfg.ServiceName != "distflow" {
		t.Errorf("ServiceName = %s, want app name fallback", cfg.ServiceName)
	}
	if !cfg.Enabled || cfg.Endpoint != "otel:4317" || cfg.SampleRate != 0.25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Version != "1.2.0" || cfg.Environment != "staging" {
		t.Errorf("version/environment = %s/%s", cfg.Version, cfg.Environment)
	}

	if got := FromConfig(app, &config.TracingConfig{ServiceName: "distflow-serve"}).ServiceName; got != "distflow-serve" {
		t.Errorf("ServiceName = %s, want distflow-serve", got)
	}
}

func TestProvider_Tracer(t *testing.T) {
	provider := &Provider{tracer: noop.NewTracerProvider().Tracer("test")}
	if provider.Tracer() == nil {
		t.Error("Tracer() should not return nil")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNetworkAttributes(t *testing.T) {
	attrs := attrMap(NetworkAttributes("sample", 22, 36, 2, 4, 14))
	if len(attrs) != 6 {
		t.Fatalf("expected 6 attributes, got %d", len(attrs))
	}
	if attrs[AttrNetworkStores].AsInt64() != 14 || attrs[AttrNetworkName].AsString() != "sample" {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestSolveAttributes(t *testing.T) {
	attrs := attrMap(SolveAttributes(115, 11, 6, true))
	if attrs[AttrMaxFlow].AsFloat64() != 115 || !attrs[AttrCacheHit].AsBool() {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestValidationAttributes(t *testing.T) {
	if attrs := ValidationAttributes(3, false); len(attrs) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(attrs))
	}
}

func TestHTTPMiddleware(t *testing.T) {
	exporter := newRecorder(t)

	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !trace.SpanFromContext(r.Context()).SpanContext().IsValid() {
			t.Error("handler context should carry a span")
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/solve", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "POST /v1/solve" || spans[0].Status.Code != codes.Error {
		t.Errorf("span = %s status %v", spans[0].Name, spans[0].Status)
	}
	if attrMap(spans[0].Attributes)["http.response.status_code"].AsInt64() != 500 {
		t.Errorf("attributes = %v", spans[0].Attributes)
	}
}

func TestHTTPMiddleware_RoutePattern(t *testing.T) {
	exporter := newRecorder(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/runs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	HTTPMiddleware(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/42", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET /v1/runs/{id}" {
		t.Errorf("span name = %s, want route pattern", spans[0].Name)
	}
	if attrMap(spans[0].Attributes)["http.route"].AsString() != "GET /v1/runs/{id}" {
		t.Errorf("attributes = %v", spans[0].Attributes)
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("200 response should not mark the span as error")
	}
}
