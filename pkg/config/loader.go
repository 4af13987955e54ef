package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "DISTFLOW_"
	configEnvVar = "DISTFLOW_CONFIG"
)

// ErrConfigNotFound возвращается, когда явно указанный файл отсутствует
var ErrConfigNotFound = errors.New("config file not found")

// Loader загружает конфигурацию из разных источников
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	configFile  string
	envPrefix   string
	overrides   map[string]any
}

// NewLoader создаёт новый загрузчик конфигурации
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"distflow.yaml",
			"config/distflow.yaml",
			"/etc/distflow/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption - опция для конфигурации загрузчика
type LoaderOption func(*Loader)

// WithConfigPaths устанавливает пути поиска конфигурации
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithConfigFile задаёт обязательный файл (флаг --config)
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.configFile = path
	}
}

// WithEnvPrefix устанавливает префикс переменных окружения
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithOverrides задаёт значения поверх всех источников (флаги CLI)
func WithOverrides(values map[string]any) LoaderOption {
	return func(l *Loader) {
		l.overrides = values
	}
}

// Load загружает конфигурацию с приоритетом:
// 1. Defaults (самый низкий)
// 2. Config file (yaml)
// 3. Environment variables
// 4. Overrides (самый высокий)
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	if len(l.overrides) > 0 {
		if err := l.k.Load(confmap.Provider(l.overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaults значения по умолчанию
func defaults() map[string]any {
	return map[string]any{
		// App
		"app.name":        "distflow",
		"app.version":     "dev",
		"app.environment": "development",

		// HTTP
		"http.port":             8080,
		"http.read_timeout":     30 * time.Second,
		"http.write_timeout":    30 * time.Second,
		"http.shutdown_timeout": 10 * time.Second,
		"http.max_body_bytes":   int64(10 * 1024 * 1024),

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stderr",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":      true,
		"metrics.path":         "/metrics",
		"metrics.namespace":    "distflow",
		"metrics.push_gateway": "",
		"metrics.job":          "distflow",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "distflow",
		"tracing.sample_rate":  1.0,

		// Cache
		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 10 * time.Minute,
		"cache.max_entries": 1000,

		// Rate limit
		"rate_limit.enabled":  false,
		"rate_limit.backend":  "memory",
		"rate_limit.strategy": "sliding_window",
		"rate_limit.requests": 100,
		"rate_limit.window":   time.Minute,
		"rate_limit.burst":    10,

		// Solver
		"solver.epsilon":         1e-9,
		"solver.verify":          true,
		"solver.strategy":        "proportional",
		"solver.parallel_shares": false,

		// Report
		"report.format":        "text",
		"report.precision":     2,
		"report.title":         "Terminal to Store Flow Report",
		"report.author":        "distflow",
		"report.include_flows": false,
	}
}

// loadConfigFile загружает конфигурацию из файла.
// Явный файл (флаг или DISTFLOW_CONFIG) обязателен, пути поиска - нет.
func (l *Loader) loadConfigFile() error {
	explicit := l.configFile
	if explicit == "" {
		explicit = os.Getenv(configEnvVar)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		if err := l.k.Load(file.Provider(explicit), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to parse %s: %w", explicit, err)
		}
		return nil
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			if err := l.k.Load(file.Provider(absPath), yaml.Parser()); err != nil {
				return fmt.Errorf("failed to parse %s: %w", absPath, err)
			}
			return nil
		}
	}

	return nil
}

// loadEnv загружает конфигурацию из переменных окружения
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))
		if key == "config" {
			return "", nil
		}

		// Маппинг для полей с подчёркиванием в именах
		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			key = strings.Replace(key, "_", ".", 1)
		}

		return key, value
	}), nil)
}

// envKeyMappings - ключи, содержащие подчёркивание в имени поля
var envKeyMappings = map[string]string{
	"http_read_timeout":     "http.read_timeout",
	"http_write_timeout":    "http.write_timeout",
	"http_shutdown_timeout": "http.shutdown_timeout",
	"http_max_body_bytes":   "http.max_body_bytes",

	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",

	"metrics_push_gateway": "metrics.push_gateway",

	"tracing_service_name": "tracing.service_name",
	"tracing_sample_rate":  "tracing.sample_rate",

	"cache_default_ttl": "cache.default_ttl",
	"cache_max_entries": "cache.max_entries",

	"rate_limit_enabled":  "rate_limit.enabled",
	"rate_limit_backend":  "rate_limit.backend",
	"rate_limit_strategy": "rate_limit.strategy",
	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
	"rate_limit_burst":    "rate_limit.burst",

	"solver_parallel_shares": "solver.parallel_shares",

	"report_include_flows": "report.include_flows",
}

// MustLoad загружает конфигурацию или паникует
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load - удобная функция для загрузки с дефолтными настройками
func Load() (*Config, error) {
	return NewLoader().Load()
}
