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

	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/ratelimit"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/server"
	"github.com/parkwatch-systems/parkwatch-stack/receiver/internal/service"
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
	).With(logging.Service("receiver"))
	logging.SetDefault(logger)

	slog.Info("Starting receiver service",
		slog.Int("port", cfg.Server.Port),
		slog.String("events_url", cfg.Events.URL),
		slog.String("log_level", cfg.Logging.Level),
	)

	// The receiver cannot function without the event log; exhausting the
	// connect attempts is fatal.
	logCfg := eventlog.DefaultConfig()
	logCfg.URL = cfg.Events.URL
	logCfg.Name = "receiver"
	logCfg.Stream = cfg.Events.Stream
	logCfg.Subject = cfg.Events.Subject
	logCfg.ConnectAttempts = cfg.Events.ConnectAttempts
	logCfg.ConnectDelay = cfg.Events.ConnectDelay

	client, err := eventlog.Connect(context.Background(), logCfg)
	if err != nil {
		log.Fatalf("Failed to connect to event log: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := client.EnsureStream(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to ensure event stream: %v", err)
	}
	cancel()

	var rateLimiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Ingestion.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Ingestion.RateLimitRequests,
			cfg.Ingestion.RateLimitWindow,
		)
		if err != nil {
			log.Printf("WARNING: Failed to initialize Redis rate limiter: %v", err)
			log.Println("Continuing without rate limiting")
			rateLimiter = &ratelimit.NoOpRateLimiter{}
		} else {
			rateLimiter = limiter
			log.Printf("Rate limiting enabled: %d requests per %s", cfg.Ingestion.RateLimitRequests, cfg.Ingestion.RateLimitWindow)
		}
	} else {
		rateLimiter = &ratelimit.NoOpRateLimiter{}
		log.Println("Rate limiting disabled")
	}
	defer rateLimiter.Close()

	producer := service.NewProducer(client, logger)
	handler := handlers.NewEventsHandler(producer, rateLimiter, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Receiver service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down receiver service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Receiver service stopped")
}
