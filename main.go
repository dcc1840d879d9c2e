package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photo-vault/internal/engine"
	"photo-vault/internal/logging"
	"photo-vault/internal/startup"
)

func main() {
	logging.Info("photo-vault %s (%s, built %s, %s)",
		startup.Version, startup.Commit, startup.BuildTime, startup.GoVersion)

	cfg, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	ctx := context.Background()

	eng, err := engine.New(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to open engine: %v", err)
	}

	stats, err := eng.Stats(ctx)
	if err != nil {
		logging.Warn("Failed to read engine stats: %v", err)
	} else {
		logging.Info("Engine ready: %d albums, %d photos, %d photo bytes",
			stats.Albums, stats.Photos, stats.PhotoBytes)
	}

	var srv *http.Server
	if cfg.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{
			Addr:         ":" + cfg.MetricsPort,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logging.Info("Metrics listening on :%s", cfg.MetricsPort)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logging.Info("Received %v, shutting down", sig)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Metrics server shutdown: %v", err)
		}
	}

	if err := eng.Close(); err != nil {
		logging.Error("Engine close: %v", err)
	}
}
