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

	"github.com/parkwatch-systems/parkwatch-stack/check/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/check/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/check/internal/monitor"
	"github.com/parkwatch-systems/parkwatch-stack/check/internal/server"
	"github.com/parkwatch-systems/parkwatch-stack/check/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
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
	).With(logging.Service("check"))
	logging.SetDefault(logger)

	slog.Info("Starting check service",
		slog.Int("port", cfg.Server.Port),
		slog.String("receiver_url", cfg.Monitor.ReceiverURL),
		slog.String("storage_url", cfg.Monitor.StorageURL),
	)

	reports, err := store.NewReportStore(cfg.Monitor.ReportPath)
	if err != nil {
		log.Fatalf("Failed to open report store: %v", err)
	}

	mon := monitor.New(
		monitor.Targets{
			ReceiverURL:   cfg.Monitor.ReceiverURL,
			StorageURL:    cfg.Monitor.StorageURL,
			ProcessingURL: cfg.Monitor.ProcessingURL,
			AnalyzerURL:   cfg.Monitor.AnalyzerURL,
		},
		reports, logger, cfg.Monitor.Interval, cfg.Monitor.CallTimeout,
	)

	runCtx, stopMonitor := context.WithCancel(context.Background())
	go mon.Run(runCtx)

	handler := handlers.NewStatusHandler(reports, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Check service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down check service")
	stopMonitor()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Check service stopped")
}
