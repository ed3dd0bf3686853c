package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"activityapi/internal/logging"
	"activityapi/internal/server"
	"activityapi/internal/shared"
	"activityapi/internal/telemetry"
)

func main() {
	cfg, err := shared.LoadServerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "activity-server: %v\n", err)
		os.Exit(2)
	}

	logCfg, err := logging.ParseConfig(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "activity-server: %v\n", err)
		os.Exit(2)
	}
	logger := logging.New(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("activity-server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *shared.ServerConfig, logger *logging.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, server.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	db, err := server.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "activity"),
	)
	metrics := server.NewMetrics(reg)

	handler := server.NewHandler(server.Options{
		Store:        server.NewSQLiteStore(db),
		AdminToken:   cfg.AdminToken,
		CORS:         server.CORS{Origins: cfg.CORSOrigins, OriginSuffix: cfg.CORSOriginSuffix},
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       logger.WithComponent("http"),
		Metrics:      metrics,
	})

	servers := []*http.Server{newHTTPServer(cfg.Addr, handler, logger)}
	if cfg.MetricsAddr != "" {
		servers = append(servers, newHTTPServer(cfg.MetricsAddr, metrics.Handler(), logger))
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		logger.Info("listening", "addr", srv.Addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
		}()
	}
	logger.Info("activity-server ready", "db", cfg.DBPath, "metrics", cfg.MetricsAddr != "", "tracing", cfg.OTelEndpoint != "")

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("http shutdown", "addr", srv.Addr, "err", err)
		}
	}
	return serveErr
}

func newHTTPServer(addr string, h http.Handler, logger *logging.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          logger.StdLogger(logging.LevelWarn),
	}
}
