// Package swagger serves Swagger UI and the OpenAPI document of an HTTP API.
package swagger

import (
	"crypto/sha256"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"distflow/pkg/logger"
)

// Config конфигурация Swagger UI
type Config struct {
	Title                    string
	BasePath                 string
	SpecPath                 string
	DeepLinking              bool
	DocExpansion             string
	DefaultModelsExpandDepth int
	// AssetBase адрес swagger-ui-dist без завершающего "/"
	AssetBase string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Title:                    "distflow API",
		BasePath:                 "/docs",
		SpecPath:                 "/openapi.json",
		DeepLinking:              true,
		DocExpansion:             "list",
		DefaultModelsExpandDepth: 1,
		AssetBase:                "https://unpkg.com/swagger-ui-dist@5",
	}
}

var uiTemplate = template.Must(template.New("swagger-ui").Parse(swaggerUITemplate))

// Handler HTTP handler для Swagger UI
type Handler struct {
	config   *Config
	spec     []byte
	specETag string
}

// NewHandler создаёт новый Swagger handler. ETag зависит только от содержимого spec.
func NewHandler(cfg *Config, spec []byte) *Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	sum := sha256.Sum256(spec)
	return &Handler{
		config:   cfg,
		spec:     spec,
		specETag: fmt.Sprintf(`"%x"`, sum[:8]),
	}
}

// ServeHTTP обрабатывает HTTP запросы
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, h.config.BasePath)
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "", "index.html":
		h.serveUI(w, r)
	case strings.TrimPrefix(h.config.SpecPath, "/"), "swagger.json":
		h.serveSpec(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) serveUI(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title                    string
		AssetBase                string
		SpecURL                  string
		DeepLinking              bool
		DocExpansion             string
		DefaultModelsExpandDepth int
	}{
		Title:                    h.config.Title,
		AssetBase:                h.config.AssetBase,
		SpecURL:                  h.config.BasePath + h.config.SpecPath,
		DeepLinking:              h.config.DeepLinking,
		DocExpansion:             h.config.DocExpansion,
		DefaultModelsExpandDepth: h.config.DefaultModelsExpandDepth,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if err := uiTemplate.Execute(w, data); err != nil {
		logger.FromContext(r.Context()).Error("Failed to execute swagger template", "error", err)
	}
}

func (h *Handler) serveSpec(w http.ResponseWriter, r *http.Request) {
	if match := r.Header.Get("If-None-Match"); match == h.specETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", h.specETag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if _, err := w.Write(h.spec); err != nil {
		logger.FromContext(r.Context()).Debug("Failed to write spec", "error", err)
	}
}

// RegisterRoutes регистрирует GET маршруты документации в mux
func RegisterRoutes(mux *http.ServeMux, cfg *Config, spec []byte) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	handler := NewHandler(cfg, spec)
	mux.Handle("GET "+cfg.BasePath+"/", handler)
	mux.Handle("GET "+cfg.BasePath, http.RedirectHandler(cfg.BasePath+"/", http.StatusMovedPermanently))
}

// swaggerUITemplate подключает swagger-ui-dist с CDN; отдельной статики нет
const swaggerUITemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.AssetBase}}/swagger-ui.css">
<style>body{margin:0}.swagger-ui .topbar{display:none}</style>
</head>
<body>
<div id="api-docs"></div>
<script src="{{.AssetBase}}/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({
  url: {{.SpecURL}},
  dom_id: "#api-docs",
  deepLinking: {{.DeepLinking}},
  docExpansion: {{.DocExpansion}},
  defaultModelsExpandDepth: {{.DefaultModelsExpandDepth}},
  presets: [SwaggerUIBundle.presets.apis],
  validatorUrl: null
});
</script>
</body>
</html>`
