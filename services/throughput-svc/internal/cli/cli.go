// Package cli implements the distflow command line: solve a network file and
// print the terminal-to-store report, validate a network file, or serve the
// same pipeline over HTTP.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"distflow/pkg/apperror"
	"distflow/pkg/cache"
	"distflow/pkg/config"
	"distflow/pkg/logger"
	"distflow/pkg/metrics"
	"distflow/pkg/telemetry"
	"distflow/services/throughput-svc/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion задаёт версию сборки (ldflags в main)
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI состояние одного запуска команды
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	logLevel   string
	loaderOpts []config.LoaderOption

	cfg       *config.Config
	metrics   *metrics.Metrics
	tracer    *telemetry.Provider
	solutions *cache.SolutionCache
}

// New создаёт CLI, пишущий отчёты в out, а логи в errOut
func New(out, errOut io.Writer, opts ...config.LoaderOption) *CLI {
	return &CLI{out: out, errOut: errOut, loaderOpts: opts}
}

// Execute выполняет команду с аргументами args
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	defer c.close()
	return root.ExecuteContext(ctx)
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "distflow",
		Short: "Maximum throughput and terminal-to-store attribution for distribution networks",
		Long: `distflow computes the maximum flow from terminals through warehouses to stores
and attributes every store delivery back to the terminals that supplied it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("distflow %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default: distflow.yaml, config/distflow.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// setup загружает конфигурацию и поднимает логгер, метрики, трейсинг и кэш
func (c *CLI) setup(ctx context.Context) error {
	opts := append([]config.LoaderOption{}, c.loaderOpts...)
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	if c.logLevel != "" {
		opts = append(opts, config.WithOverrides(map[string]any{"log.level": c.logLevel}))
	}

	cfg, err := config.NewLoader(opts...).Load()
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidInput, fmt.Sprintf("load config: %v", err))
	}
	// Версия сборки важнее значения из конфига
	if version != "dev" {
		cfg.App.Version = version
	}
	c.cfg = cfg

	logCfg := logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	if cfg.Log.Output == "stderr" {
		logCfg.Writer = c.errOut
	}
	logger.InitWithConfig(logCfg)

	if cfg.Metrics.Enabled {
		c.metrics = metrics.New(prometheus.NewRegistry(), cfg.Metrics.Namespace)
		c.metrics.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.FromConfig(&cfg.App, &cfg.Tracing))
		if err != nil {
			logger.Warn("Failed to init telemetry, continuing without tracing", "error", err)
		} else {
			c.tracer = tp
			logger.Debug("Telemetry initialized", "endpoint", cfg.Tracing.Endpoint)
		}
	}

	if cfg.Cache.Enabled {
		base, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			c.solutions = cache.NewSolutionCache(base, cfg.Cache.DefaultTTL)
			logger.Debug("Solution cache initialized", "driver", cfg.Cache.Driver, "ttl", cfg.Cache.DefaultTTL)

			if c.metrics != nil {
				if err := c.metrics.RegisterCacheStats(cfg.Cache.Driver, c.cacheStats); err != nil {
					logger.Warn("Failed to register cache metrics", "error", err)
				}
			}
		}
	}

	return nil
}

func (c *CLI) cacheStats(ctx context.Context) (metrics.CacheSnapshot, error) {
	if c.solutions == nil {
		return metrics.CacheSnapshot{}, cache.ErrCacheClosed
	}
	s, err := c.solutions.Stats(ctx)
	if err != nil {
		return metrics.CacheSnapshot{}, err
	}
	return metrics.CacheSnapshot{
		Entries:   s.TotalKeys,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
	}, nil
}

// close отправляет метрики и освобождает ресурсы
func (c *CLI) close() {
	if c.cfg == nil {
		return
	}

	if c.metrics != nil && c.cfg.Metrics.PushGateway != "" {
		if err := c.metrics.Push(c.cfg.Metrics.PushGateway, c.cfg.Metrics.Job); err != nil {
			logger.Warn("Failed to push metrics", "gateway", c.cfg.Metrics.PushGateway, "error", err)
		}
	}

	if c.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.tracer.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shutdown telemetry", "error", err)
		}
		c.tracer = nil
	}

	if c.solutions != nil {
		if err := c.solutions.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
		c.solutions = nil
	}
}

func (c *CLI) newService(parallel bool) *service.ThroughputService {
	return service.NewThroughputService(service.Options{
		Version:        c.cfg.App.Version,
		Strategy:       c.cfg.Solver.Strategy,
		ParallelShares: parallel || c.cfg.Solver.ParallelShares,
		Verify:         c.cfg.Solver.Verify,
		Epsilon:        c.cfg.Solver.Epsilon,
		Metrics:        c.metrics,
		Solutions:      c.solutions,
		CacheTTL:       c.cfg.Cache.DefaultTTL,
	})
}

func (c *CLI) reportOptions(includeFlows bool) service.ReportOptions {
	return service.ReportOptions{
		Title:        c.cfg.Report.Title,
		Author:       c.cfg.Report.Author,
		Precision:    c.cfg.Report.Precision,
		IncludeFlows: includeFlows || c.cfg.Report.IncludeFlows,
	}
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "distflow %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			return err
		},
	}
}
