package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/feru-app/beacon/config"
	httpx "github.com/feru-app/beacon/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// ServeHTTP builds the router, binds the listener, and serves until the
// context is cancelled, then shuts down gracefully.
func ServeHTTP(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Audits:        cfg.Services.Audits,
		Webhooks:      cfg.Services.Webhooks,
		Monitors:      cfg.Services.Monitors,
		WebhookSecret: cfg.Config.Launcher.WebhookSecret,
		Logger:        logger,
	})

	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if maxConns := cfg.Config.HTTP.MaxConns; maxConns > 0 {
		listener = netutil.LimitListener(listener, maxConns)
		logger.Info("HTTP connection cap enabled", "max_conns", maxConns)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
