package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/daybook-app/daybook-api/config"
	httpx "github.com/daybook-app/daybook-api/internal/http"
	"github.com/daybook-app/daybook-api/internal/observability/statsd"
)

// HTTPServerDeps contains everything needed to assemble the HTTP server.
type HTTPServerDeps struct {
	Config  *config.AppConfig
	Auth    httpx.AuthService
	Entries httpx.EntryService
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// BuildHTTPServer parses the origin allow-list once and assembles the router
// and middleware chain into a configured server.
func BuildHTTPServer(deps HTTPServerDeps) (*http.Server, error) {
	origins, err := httpx.ParseAllowList(deps.Config.HTTP.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("parse origin allow-list: %w", err)
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:         deps.Auth,
		Entries:      deps.Entries,
		Origins:      origins,
		CookieDomain: deps.Config.HTTP.CookieDomain,
		Logger:       deps.Logger,
		Metrics:      deps.Metrics,
	})

	addr := deps.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}, nil
}

// BuildMetrics creates the StatsD client. A disabled config yields a client
// that swallows every metric.
func BuildMetrics(cfg config.StatsdConfig, env string, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled:  cfg.Enabled,
		Addr:     cfg.Addr,
		Prefix:   cfg.Prefix,
		BaseTags: map[string]string{"env": env},
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("statsd client: %w", err)
	}
	if client.Enabled() {
		logger.Info("statsd metrics enabled", "addr", cfg.Addr, "prefix", cfg.Prefix)
	}
	return client, nil
}

// RunServer serves until the context is canceled or a termination signal
// arrives, then shuts down gracefully.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}
