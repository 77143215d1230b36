// Package server assembles the HTTP server: config, database, cache, the
// middleware chain, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tillworks/tillpoint/app/routes"
	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/pkg/cache"
	"github.com/tillworks/tillpoint/pkg/database"
	"github.com/tillworks/tillpoint/pkg/logger"
	"github.com/tillworks/tillpoint/pkg/metrics"
	"github.com/tillworks/tillpoint/pkg/middleware"
	"github.com/tillworks/tillpoint/pkg/migration"
	"github.com/tillworks/tillpoint/pkg/reqid"
	"github.com/tillworks/tillpoint/pkg/router"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the fully wired router. Split out from Run so tests can
// serve the real middleware chain through httptest.
func NewRouter() *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	routes.RegisterAPI(r, database.DB)

	return r
}

// Run boots the server and blocks until SIGINT/SIGTERM.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("closing database", "error", err.Error())
		}
	}()
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, barcode cache disabled", "error", err.Error())
	}

	r := NewRouter()
	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
