package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"distflow/pkg/config"
	"distflow/pkg/logger"
	"distflow/pkg/metrics"
	"distflow/pkg/telemetry"
)

// HTTPServer обёртка над http.Server с graceful shutdown
type HTTPServer struct {
	server      *http.Server
	serviceName string
	config      *config.Config
	telemetry   *telemetry.Provider
	metrics     *metrics.Metrics

	ready   atomic.Bool
	addr    atomic.Value
	started chan struct{}
}

// ServerOptions дополнительные опции сервера
type ServerOptions struct {
	// Telemetry is shut down together with the server.
	Telemetry *telemetry.Provider
	Metrics   *metrics.Metrics
}

// New создаёт HTTP сервер для handler
func New(cfg *config.Config, handler http.Handler) *HTTPServer {
	return NewWithOptions(cfg, handler, nil)
}

// NewWithOptions создаёт сервер с дополнительными опциями
func NewWithOptions(cfg *config.Config, handler http.Handler, opts *ServerOptions) *HTTPServer {
	if opts == nil {
		opts = &ServerOptions{}
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              cfg.HTTP.Address(),
			Handler:           handler,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
		},
		serviceName: cfg.App.Name,
		config:      cfg,
		telemetry:   opts.Telemetry,
		metrics:     opts.Metrics,
		started:     make(chan struct{}),
	}
}

// Ready сообщает, принимает ли сервер запросы
func (s *HTTPServer) Ready() bool {
	return s.ready.Load()
}

// Started закрывается, когда сервер начал слушать порт
func (s *HTTPServer) Started() <-chan struct{} {
	return s.started
}

// Addr возвращает фактический адрес после старта
func (s *HTTPServer) Addr() string {
	if v, ok := s.addr.Load().(string); ok {
		return v
	}
	return s.server.Addr
}

// Run запускает сервер и блокируется до отмены ctx, сигнала SIGINT/SIGTERM
// или ошибки Serve
func (s *HTTPServer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.addr.Store(lis.Addr().String())

	errCh := make(chan error, 1)

	go func() {
		logger.Log.Info("Starting HTTP server",
			"service", s.serviceName,
			"addr", lis.Addr().String(),
			"environment", s.config.App.Environment,
			"version", s.config.App.Version,
		)
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.metrics != nil {
		s.metrics.SetServiceInfo(s.config.App.Version, s.config.App.Environment)
	}

	s.ready.Store(true)
	close(s.started)

	return s.waitForShutdown(ctx, errCh)
}

func (s *HTTPServer) waitForShutdown(ctx context.Context, errCh chan error) error {
	select {
	case err := <-errCh:
		s.ready.Store(false)
		return err
	case <-ctx.Done():
		logger.Log.Info("Received shutdown signal", "reason", context.Cause(ctx))
	}

	s.ready.Store(false)

	timeout := s.config.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Forcing server stop", "error", err)
		_ = s.server.Close() //nolint:errcheck // already failing
	} else {
		logger.Log.Info("Server stopped gracefully")
	}

	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("Failed to shutdown telemetry", "error", err)
		}
	}

	return nil
}

// Stop останавливает сервер немедленно
func (s *HTTPServer) Stop() error {
	s.ready.Store(false)
	return s.server.Close()
}
