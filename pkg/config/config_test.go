package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:    AppConfig{Name: "distflow"},
		HTTP:   HTTPConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "json", Output: "stderr"},
		Cache:  CacheConfig{Driver: "memory"},
		Solver: SolverConfig{Strategy: "proportional"},
		Report: ReportConfig{Format: "text", Precision: 2},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty log level defaults", mutate: func(c *Config) { c.Log.Level = "" }},
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "app.name"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "bad log output", mutate: func(c *Config) { c.Log.Output = "syslog" }, wantErr: "log.output"},
		{name: "bad http port", mutate: func(c *Config) { c.HTTP.Port = 70000 }, wantErr: "http.port"},
		{
			name:    "bad cache driver",
			mutate:  func(c *Config) { c.Cache.Enabled = true; c.Cache.Driver = "memcached" },
			wantErr: "cache.driver",
		},
		{
			name:    "redis without port",
			mutate:  func(c *Config) { c.Cache.Enabled = true; c.Cache.Driver = "redis" },
			wantErr: "cache.port",
		},
		{name: "disabled cache ignores driver", mutate: func(c *Config) { c.Cache.Driver = "memcached" }},
		{
			name: "rate limit enabled",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, Backend: "redis", Strategy: "token_bucket", Requests: 10, Window: time.Second}
			},
		},
		{
			name: "bad rate limit strategy",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, Backend: "memory", Strategy: "leaky", Requests: 10, Window: time.Second}
			},
			wantErr: "rate_limit.strategy",
		},
		{
			name:    "zero rate limit window",
			mutate:  func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, Backend: "memory", Strategy: "sliding_window", Requests: 10} },
			wantErr: "rate_limit.requests",
		},
		{name: "negative epsilon", mutate: func(c *Config) { c.Solver.Epsilon = -1 }, wantErr: "solver.epsilon"},
		{name: "bad strategy", mutate: func(c *Config) { c.Solver.Strategy = "random" }, wantErr: "solver.strategy"},
		{name: "bad report format", mutate: func(c *Config) { c.Report.Format = "docx" }, wantErr: "report.format"},
		{name: "report format alias", mutate: func(c *Config) { c.Report.Format = "MD" }},
		{name: "zero precision", mutate: func(c *Config) { c.Report.Precision = 0 }, wantErr: "report.precision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_DefaultsLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"dev", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		cfg := &Config{App: AppConfig{Environment: tt.env}}
		if got := cfg.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment() for %s = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"prod", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		cfg := &Config{App: AppConfig{Environment: tt.env}}
		if got := cfg.IsProduction(); got != tt.want {
			t.Errorf("IsProduction() for %s = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestAddresses(t *testing.T) {
	if got := (CacheConfig{Host: "localhost", Port: 6379}).Address(); got != "localhost:6379" {
		t.Errorf("CacheConfig.Address() = %s", got)
	}
	if got := (HTTPConfig{Port: 8080}).Address(); got != ":8080" {
		t.Errorf("HTTPConfig.Address() = %s", got)
	}
}
