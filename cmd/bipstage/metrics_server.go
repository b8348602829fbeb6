package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/squidpickles/bipbuffer/bipmetrics"
)

// startMetricsServer serves src on addr until ctx is done. It is a no-op when
// addr is empty. The returned function waits for the server to shut down.
func startMetricsServer(ctx context.Context, addr, name string, src bipmetrics.Source) func() {
	if addr == "" {
		return func() {}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(bipmetrics.NewCollector(name, src))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("Starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return func() { <-done }
}
