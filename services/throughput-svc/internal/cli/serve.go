package cli

import (
	"github.com/spf13/cobra"

	"distflow/pkg/logger"
	"distflow/pkg/ratelimit"
	"distflow/pkg/server"
	"distflow/services/throughput-svc/internal/transport"
)

func (c *CLI) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve exposes POST /v1/solve, POST /v1/validate, GET /health and GET /metrics.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				c.cfg.HTTP.Port = port
			}

			svc := c.newService(c.cfg.Solver.ParallelShares)

			var limiter ratelimit.Limiter
			if c.cfg.RateLimit.Enabled {
				l, err := ratelimit.New(ratelimit.FromConfig(&c.cfg.RateLimit, &c.cfg.Cache))
				if err != nil {
					logger.Warn("Failed to create rate limiter, serving without limits", "error", err)
				} else {
					limiter = l
					defer limiter.Close()
				}
			}

			var srv *server.HTTPServer
			handler := transport.NewHandler(svc, transport.Options{
				MaxBodyBytes: c.cfg.HTTP.MaxBodyBytes,
				Report:       c.reportOptions(false),
				Metrics:      c.metrics,
				Ready:        func() bool { return srv.Ready() },
				Limiter:      limiter,
			})

			srv = server.NewWithOptions(c.cfg, handler, &server.ServerOptions{
				Telemetry: c.tracer,
				Metrics:   c.metrics,
			})
			// Трейсинг закрывает сервер
			c.tracer = nil

			logger.Info("Starting throughput service",
				"port", c.cfg.HTTP.Port,
				"environment", c.cfg.App.Environment,
				"version", c.cfg.App.Version,
				"cache_enabled", c.solutions != nil,
				"metrics_enabled", c.metrics != nil,
				"rate_limit_enabled", limiter != nil,
			)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (default from config)")
	return cmd
}
