package main

import (
	"chatd/logs"
	"chatd/moderation"
	"chatd/repositories"
	"chatd/runtime"
	"chatd/runtime/workers"
	"chatd/server"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanup always executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

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

	// 3. Moderation
	words, err := moderation.LoadDefaultWords()
	if err != nil {
		return fmt.Errorf("loading censored words: %w", err)
	}
	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(words, replacement)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	log.Info("Moderation ready", "words", len(words))

	// 4. Supervision, registry, workers
	chatLog := repositories.NewChatLog(db, log, config.LimitMessages)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry(log, sup, chatLog,
		config.BufferSize, config.ConnectionBufferSize, config.SinkTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := registry.Bootstrap(ctx); err != nil {
		return fmt.Errorf("restoring rooms: %w", err)
	}

	telemetry, err := workers.NewTelemetryWorker(log, config.MetricInterval)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	sup.Start(ctx, telemetry)

	// 5. TCP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	srv := server.New(log, registry, chatLog, moderator,
		config.ConnectionBufferSize, config.SinkTimeout)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Chat server listening", "address", address)
		if err := srv.Serve(ctx, listener); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// 7. Final Cleanup
	stop()
	sup.Stop()
	sup.Wait()
	log.Info("Program stopped cleanly")

	return nil
}
