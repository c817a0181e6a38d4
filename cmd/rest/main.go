package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emojiart-be/internal/bootstrap"
	"emojiart-be/internal/config"
	"emojiart-be/internal/server"
	"emojiart-be/internal/tracer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 0. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()

	// 1. Configuration
	cfg := config.Load()

	// 2. Dependencies
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to build container: %v", err)
	}
	container.Start()

	// 3. Server
	srv := server.New(cfg, container)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	case err := <-errCh:
		log.Printf("Server stopped: %v", err)
	}

	// 4. Shutdown: stop accepting intents, then flush the pending autosave.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := container.Close(ctx); err != nil {
		log.Printf("Container shutdown error: %v", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
}
