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

	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/server"
	"github.com/parkwatch-systems/parkwatch-stack/analyzer/internal/service"
	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/events"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
)

// logReplayer opens a fresh broker connection per query. A broker outage
// surfaces as an error on that query; the HTTP surface stays up.
type logReplayer struct {
	cfg eventlog.Config
}

func (r logReplayer) Replay(ctx context.Context, timeout time.Duration, fn func(*events.Envelope)) error {
	client, err := eventlog.Connect(ctx, r.cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Replay(ctx, timeout, fn)
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
	).With(logging.Service("analyzer"))
	logging.SetDefault(logger)

	slog.Info("Starting analyzer service",
		slog.Int("port", cfg.Server.Port),
		slog.String("events_url", cfg.Events.URL),
	)

	// Every query replays the log through its own short-lived connection.
	// One attempt per query: a caller waiting on a query should get the 503
	// promptly, not sit through a retry loop.
	logCfg := eventlog.DefaultConfig()
	logCfg.URL = cfg.Events.URL
	logCfg.Name = "analyzer"
	logCfg.Stream = cfg.Events.Stream
	logCfg.Subject = cfg.Events.Subject
	logCfg.ConnectAttempts = 1

	replaySvc := service.NewReplayService(logReplayer{cfg: logCfg}, logger, cfg.Replay.ReadTimeout)
	handler := handlers.NewReplayHandler(replaySvc, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Analyzer service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down analyzer service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Analyzer service stopped")
}
