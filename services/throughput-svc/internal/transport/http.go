// Package transport exposes the throughput service over HTTP.
//
// Routes:
//
//	POST /v1/solve     solve a network description (JSON, or YAML by Content-Type)
//	POST /v1/validate  check a network description without solving it
//	GET  /health       liveness and version
//	GET  /metrics      Prometheus exposition
//	GET  /docs/        Swagger UI and the OpenAPI document
//
// /v1/solve accepts the query parameters strategy, format, flows and paths.
// With a Limiter the /v1 routes answer 429 RATE_LIMITED once a client key
// exceeds its budget; /health and /metrics are never limited.
// Without format the response is the JSON result document; with format the
// body is the rendered report.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"distflow/api/openapi"
	"distflow/pkg/apperror"
	"distflow/pkg/domain"
	"distflow/pkg/logger"
	"distflow/pkg/metrics"
	"distflow/pkg/ratelimit"
	"distflow/pkg/swagger"
	"distflow/pkg/telemetry"
	"distflow/services/throughput-svc/internal/algorithms"
	"distflow/services/throughput-svc/internal/attribution"
	"distflow/services/throughput-svc/internal/input"
	"distflow/services/throughput-svc/internal/report"
	"distflow/services/throughput-svc/internal/service"
)

// DefaultMaxBodyBytes ограничение размера тела запроса по умолчанию
const DefaultMaxBodyBytes = 4 << 20

// Runner то, что transport требует от сервиса
type Runner interface {
	Run(ctx context.Context, req *service.Request) (*service.Result, error)
	Inspect(ctx context.Context, req *service.Request) (*service.Summary, error)
	Version() string
}

// Options параметры HTTP слоя
type Options struct {
	MaxBodyBytes int64
	Report       service.ReportOptions

	// Metrics is optional; when nil the process-wide registry is served.
	Metrics *metrics.Metrics
	// Ready reports readiness for /health; nil means always ready.
	Ready func() bool
	// Limiter is optional; requests are keyed by ratelimit.ClientKey.
	Limiter ratelimit.Limiter
}

type handler struct {
	svc      Runner
	opts     Options
	metrics  *metrics.Metrics
	inFlight *metrics.InFlight
}

// NewHandler собирает маршруты сервиса
func NewHandler(svc Runner, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Report.Precision <= 0 {
		opts.Report.Precision = attribution.DefaultPrecision
	}

	h := &handler{svc: svc, opts: opts, metrics: opts.Metrics}
	if h.metrics != nil {
		h.inFlight = metrics.NewInFlight(h.metrics.HTTPRequestsInFlight)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/solve", h.instrument("/v1/solve", h.limit("/v1/solve", h.solve)))
	mux.Handle("POST /v1/validate", h.instrument("/v1/validate", h.limit("/v1/validate", h.validate)))
	mux.Handle("GET /health", h.instrument("/health", h.health))

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	} else {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	swagger.RegisterRoutes(mux, nil, openapi.MustGetSpec())

	return telemetry.HTTPMiddleware(mux)
}

// statusWriter запоминает код ответа для метрик
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (h *handler) instrument(path string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if h.inFlight != nil {
			h.inFlight.Start(path)
			defer h.inFlight.End(path)
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		fn(sw, r)

		duration := time.Since(start)
		if h.metrics != nil {
			h.metrics.RecordHTTPRequest(path, strconv.Itoa(sw.status), duration)
		}
		logger.FromContext(r.Context()).Debug("http request",
			"method", r.Method,
			"path", path,
			"status", sw.status,
			"duration", duration,
		)
	})
}

// limit пропускает запрос через лимитер. Ошибка лимитера не блокирует запрос.
func (h *handler) limit(path string, fn http.HandlerFunc) http.HandlerFunc {
	if h.opts.Limiter == nil {
		return fn
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key := ratelimit.ClientKey(r)
		d, err := h.opts.Limiter.Allow(r.Context(), key)
		if err != nil {
			logger.FromContext(r.Context()).Warn("rate limiter unavailable", "path", path, "error", err)
			fn(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if d.Allowed {
			fn(w, r)
			return
		}

		retry := int(math.Ceil(d.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		if h.metrics != nil {
			h.metrics.RecordRateLimited(path)
		}
		logger.FromContext(r.Context()).Debug("rate limited", "path", path, "client", key)

		writeError(w, r, apperror.Newf(apperror.CodeRateLimited, "rate limit of %d requests exceeded", d.Limit).
			WithDetails("retry_after_seconds", retry))
	}
}

// solveResponse ответ /v1/solve
type solveResponse struct {
	RunID      string                 `json:"run_id"`
	Network    string                 `json:"network,omitempty"`
	Strategy   string                 `json:"strategy"`
	MaxFlow    float64                `json:"max_flow"`
	Iterations int                    `json:"iterations"`
	CacheHit   bool                   `json:"cache_hit"`
	DurationMS float64                `json:"duration_ms"`
	Rows       []row                  `json:"rows"`
	Cut        *algorithms.CutResult  `json:"cut,omitempty"`
	Flows      []domain.EdgeFlow      `json:"flows,omitempty"`
	Paths      []domain.Path          `json:"paths,omitempty"`
	Statistics *domain.FlowStatistics `json:"statistics,omitempty"`
}

type row struct {
	Terminal  string  `json:"terminal"`
	Store     string  `json:"store"`
	Flow      float64 `json:"flow"`
	Formatted string  `json:"formatted"`
}

func (h *handler) solve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var format report.Format
	if raw := q.Get("format"); raw != "" {
		f, err := report.ParseFormat(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		format = f
	}

	req, err := h.decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.Strategy = q.Get("strategy")
	req.ReturnPaths = boolParam(q.Get("paths"))
	includeFlows := boolParam(q.Get("flows")) || h.opts.Report.IncludeFlows

	res, err := h.svc.Run(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format != "" {
		h.writeReport(w, r, res, format, includeFlows)
		return
	}

	resp := &solveResponse{
		RunID:      res.RunID,
		Network:    res.Network,
		Strategy:   res.Table.Strategy,
		MaxFlow:    res.MaxFlow,
		Iterations: res.Iterations,
		CacheHit:   res.CacheHit,
		DurationMS: float64(res.Duration.Microseconds()) / 1000,
		Rows:       make([]row, 0, len(res.Table.Rows)),
		Cut:        res.Cut,
		Paths:      res.Paths,
		Statistics: res.FlowStatistics(),
	}
	for _, rw := range res.Table.Rows {
		resp.Rows = append(resp.Rows, row{
			Terminal:  rw.Terminal,
			Store:     rw.Store,
			Flow:      rw.Flow,
			Formatted: rw.Formatted(h.opts.Report.Precision),
		})
	}
	if includeFlows {
		resp.Flows = res.BaseFlows()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) writeReport(w http.ResponseWriter, r *http.Request, res *service.Result, format report.Format, includeFlows bool) {
	gen, err := report.New(format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := h.opts.Report
	opts.IncludeFlows = includeFlows

	body, err := gen.Generate(r.Context(), res.ReportData(opts))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "distflow-"+res.RunID+format.Extension()))
	w.Header().Set("X-Run-ID", res.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body) //nolint:errcheck // client gone
}

func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sum, err := h.svc.Inspect(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	if h.opts.Ready != nil && !h.opts.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "shutting_down",
			"version": h.svc.Version(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.svc.Version(),
	})
}

// decodeRequest читает описание сети из тела запроса
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*service.Request, error) {
	body := http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	defer body.Close()

	format := input.FormatJSON
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "yaml"):
		format = input.FormatYAML
	case strings.Contains(ct, "csv"):
		format = input.FormatCSV
	}

	d, err := input.Decode(body, format)
	if err != nil {
		return nil, err
	}
	n, err := d.Build()
	if err != nil {
		return nil, err
	}

	req := &service.Request{Network: n}
	if t := r.URL.Query().Get("terminals"); t != "" {
		req.Terminals = splitList(t)
	}
	if s := r.URL.Query().Get("stores"); s != "" {
		req.Stores = splitList(s)
	}
	return req, nil
}

// errorResponse тело ответа об ошибке
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)

	body := errorBody{
		Code:    string(apperror.Code(err)),
		Message: err.Error(),
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Field = appErr.Field
		body.Details = appErr.Details
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v) //nolint:errcheck // client gone
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatJSON:
		return "application/json"
	case report.FormatCSV:
		return "text/csv; charset=utf-8"
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case report.FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case report.FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

func boolParam(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
