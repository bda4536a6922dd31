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

	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/detector"
	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/server"
	"github.com/parkwatch-systems/parkwatch-stack/anomaly/internal/store"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// ownedCursor ties the broker connection's lifetime to the cursor; each
// detection cycle opens and closes a fresh pair.
type ownedCursor struct {
	*eventlog.Cursor
	client *eventlog.Client
}

func (c ownedCursor) Close() {
	c.Cursor.Close()
	c.client.Close()
}

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
	).With(logging.Service("anomaly"))
	logging.SetDefault(logger)

	slog.Info("Starting anomaly service",
		slog.Int("port", cfg.Server.Port),
		slog.String("events_url", cfg.Events.URL),
		slog.Float64("max_amount", cfg.Detector.MaxAmount),
	)

	anomalies, err := store.NewAnomalyStore(cfg.Detector.StorePath)
	if err != nil {
		log.Fatalf("Failed to open anomaly store: %v", err)
	}

	// A broker outage only pauses detection; recorded anomalies stay
	// readable, so connect failures are retried per cycle, never fatal.
	logCfg := eventlog.DefaultConfig()
	logCfg.URL = cfg.Events.URL
	logCfg.Name = "anomaly"
	logCfg.Stream = cfg.Events.Stream
	logCfg.Subject = cfg.Events.Subject
	logCfg.ConnectAttempts = cfg.Events.ConnectAttempts
	logCfg.ConnectDelay = cfg.Events.ConnectDelay

	opener := func(ctx context.Context) (detector.Cursor, error) {
		client, err := eventlog.Connect(ctx, logCfg)
		if err != nil {
			return nil, err
		}
		cur, err := client.OpenCursor(ctx, eventlog.CursorOptions{
			Group:  cfg.Detector.Group,
			Start:  eventlog.StartEarliest,
			Commit: eventlog.CommitManual,
		})
		if err != nil {
			client.Close()
			return nil, err
		}
		return ownedCursor{Cursor: cur, client: client}, nil
	}

	det := detector.New(opener, anomalies, logger,
		detector.Thresholds{
			MaxAmount:     cfg.Detector.MaxAmount,
			MinSpotNumber: cfg.Detector.MinSpotNumber,
		},
		cfg.Detector.Interval, cfg.Detector.PollTimeout,
	)

	runCtx, stopDetector := context.WithCancel(context.Background())
	go det.Run(runCtx)

	handler := handlers.NewAnomaliesHandler(anomalies, det, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Anomaly service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down anomaly service")
	stopDetector()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Anomaly service stopped")
}
