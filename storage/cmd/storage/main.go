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

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/parkwatch-systems/parkwatch-stack/common/eventlog"
	"github.com/parkwatch-systems/parkwatch-stack/common/logging"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/config"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/consumer"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/handlers"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/repository"
	"github.com/parkwatch-systems/parkwatch-stack/storage/internal/server"
)

// ownedCursor ties the broker connection's lifetime to the cursor, so a
// reopened cursor does not leak the previous connection.
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
	).With(logging.Service("storage"))
	logging.SetDefault(logger)

	slog.Info("Starting storage service",
		slog.Int("port", cfg.Server.Port),
		slog.String("events_url", cfg.Events.URL),
		slog.String("log_level", cfg.Logging.Level),
	)

	connString := cfg.ConnString()

	// Run database migrations
	log.Println("Running database migrations...")
	m, err := migrate.New("file://migrations", connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize repository
	repo, err := repository.NewPostgresRepository(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// The event log connection is retried by the recorder loop; a broker
	// outage at startup must not keep the read API down.
	logCfg := eventlog.DefaultConfig()
	logCfg.URL = cfg.Events.URL
	logCfg.Name = "storage"
	logCfg.Stream = cfg.Events.Stream
	logCfg.Subject = cfg.Events.Subject
	logCfg.ConnectAttempts = cfg.Events.ConnectAttempts
	logCfg.ConnectDelay = cfg.Events.ConnectDelay

	opener := func(ctx context.Context) (consumer.Cursor, error) {
		client, err := eventlog.Connect(ctx, logCfg)
		if err != nil {
			return nil, err
		}
		cur, err := client.OpenCursor(ctx, eventlog.CursorOptions{
			Group:  cfg.Consumer.Group,
			Start:  eventlog.StartLatest,
			Commit: eventlog.CommitManual,
		})
		if err != nil {
			client.Close()
			return nil, err
		}
		return ownedCursor{Cursor: cur, client: client}, nil
	}

	recorder := consumer.NewRecorder(opener, repo, logger, cfg.Consumer.PollTimeout, cfg.Consumer.RetryDelay)

	runCtx, stopRecorder := context.WithCancel(context.Background())
	go recorder.Run(runCtx)

	handler := handlers.NewEventsHandler(repo, recorder, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Storage service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down storage service")
	stopRecorder()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	slog.Info("Storage service stopped")
}
