// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App       AppConfig       `koanf:"app"`
	HTTP      HTTPConfig      `koanf:"http"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Solver    SolverConfig    `koanf:"solver"`
	Report    ReportConfig    `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
}

// HTTPConfig - настройки HTTP сервера (команда serve)
type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// Address возвращает адрес для net.Listen
func (h HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Path        string `koanf:"path"`
	Namespace   string `koanf:"namespace"`
	PushGateway string `koanf:"push_gateway"` // пусто - без push
	Job         string `koanf:"job"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// CacheConfig - настройки кэширования решений
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig - ограничение частоты запросов к serve.
// Redis берёт адрес из CacheConfig.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Backend  string        `koanf:"backend"`  // memory, redis
	Strategy string        `koanf:"strategy"` // sliding_window, token_bucket
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

// SolverConfig - параметры расчёта потока
type SolverConfig struct {
	Epsilon        float64 `koanf:"epsilon"` // относительный допуск проверки результата
	Verify         bool    `koanf:"verify"`
	Strategy       string  `koanf:"strategy"` // proportional, paths
	ParallelShares bool    `koanf:"parallel_shares"`
}

// ReportConfig - параметры отчёта по умолчанию
type ReportConfig struct {
	Format       string `koanf:"format"`
	Precision    int    `koanf:"precision"`
	Title        string `koanf:"title"`
	Author       string `koanf:"author"`
	IncludeFlows bool   `koanf:"include_flows"`
}

var (
	validLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
	validOutputs    = map[string]bool{"stdout": true, "stderr": true, "file": true}
	validDrivers    = map[string]bool{"memory": true, "redis": true}
	validLimiters   = map[string]bool{"sliding_window": true, "token_bucket": true}
	validStrategies = map[string]bool{"proportional": true, "paths": true}
	validReports    = map[string]bool{
		"text": true, "txt": true, "markdown": true, "md": true, "csv": true,
		"json": true, "xlsx": true, "excel": true, "pdf": true,
	}
)

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}
	if c.Log.Format != "" && !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of: json, text, got %s", c.Log.Format))
	}
	if c.Log.Output != "" && !validOutputs[c.Log.Output] {
		errs = append(errs, fmt.Sprintf("log.output must be one of: stdout, stderr, file, got %s", c.Log.Output))
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	if c.Cache.Enabled {
		if !validDrivers[c.Cache.Driver] {
			errs = append(errs, fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver))
		}
		if c.Cache.Driver == "redis" && (c.Cache.Port <= 0 || c.Cache.Port > 65535) {
			errs = append(errs, fmt.Sprintf("cache.port must be between 1 and 65535, got %d", c.Cache.Port))
		}
	}

	if c.RateLimit.Enabled {
		if !validDrivers[c.RateLimit.Backend] {
			errs = append(errs, fmt.Sprintf("rate_limit.backend must be one of: memory, redis, got %s", c.RateLimit.Backend))
		}
		if !validLimiters[c.RateLimit.Strategy] {
			errs = append(errs, fmt.Sprintf("rate_limit.strategy must be one of: sliding_window, token_bucket, got %s", c.RateLimit.Strategy))
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			errs = append(errs, "rate_limit.requests and rate_limit.window must be positive")
		}
	}

	if c.Solver.Epsilon < 0 {
		errs = append(errs, "solver.epsilon must be non-negative")
	}
	if c.Solver.Strategy != "" && !validStrategies[c.Solver.Strategy] {
		errs = append(errs, fmt.Sprintf("solver.strategy must be one of: proportional, paths, got %s", c.Solver.Strategy))
	}

	if c.Report.Format != "" && !validReports[strings.ToLower(c.Report.Format)] {
		errs = append(errs, fmt.Sprintf("report.format is not supported: %s", c.Report.Format))
	}
	if c.Report.Precision <= 0 {
		errs = append(errs, fmt.Sprintf("report.precision must be positive, got %d", c.Report.Precision))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
