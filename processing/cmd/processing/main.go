package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/aggregator"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/server"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/storageclient"
	"github.com/parkwatch-systems/parkwatch-stack/processing/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("processing"))
	logging.SetDefault(logger)

	slog.Info("Starting processing service",
		slog.Int("port", cfg.Server.Port),
		slog.String("storage_url", cfg.Storage.URL),
		slog.String("snapshot_path", cfg.Aggregator.SnapshotPath),
	)

	snapshots, err := store.NewSnapshotStore(cfg.Aggregator.SnapshotPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}

	fetcher := storageclient.New(cfg.Storage.URL, cfg.Storage.Timeout)
	agg := aggregator.New(fetcher, snapshots, logger, cfg.Aggregator.Interval)

	runCtx, stopAggregator := context.WithCancel(context.Background())
	go agg.Run(runCtx)

	handler := handlers.NewStatsHandler(snapshots, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Processing service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down processing service")
	stopAggregator()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Processing service stopped")
}
