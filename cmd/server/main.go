package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"pairchat/auth"
	"pairchat/httpapi"
	"pairchat/internal"
	"pairchat/repositories"
	"pairchat/runtime"
	"pairchat/runtime/workers"
	"pairchat/services"
	"pairchat/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before the process
// exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Storage & Services
	assets, err := storage.NewDiskStore(config.AssetFilepath, log)
	if err != nil {
		return fmt.Errorf("asset store: %w", err)
	}

	registry := runtime.NewRegistry()
	hub := runtime.NewHub(log, registry, config.BufferSize)

	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log)

	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, assets, tokens)
	chatService := services.NewChatService(log, messageRepository, userRepository, assets, hub)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervised workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewPresenceBroadcaster(log, hub.Broadcasts(), config.SinkTimeout),
		workers.NewTelemetryWorker(log, config.TelemetryInterval),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 6. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	api := httpapi.NewServer(log, hub, authService, chatService, tokens,
		config.ConnectionBufferSize, config.WriteTimeout, config.AssetFilepath)

	httpServer := &http.Server{Addr: address, Handler: api.Handler()}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
