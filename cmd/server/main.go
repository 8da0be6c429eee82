package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmon/app"
	"fleetmon/storage/postgres"

	"go.uber.org/zap"
)

func main() {
	application, err := app.Bootstrap()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer application.Logger.Sync()
	defer application.Storage.(*postgres.Store).Close()

	// Start the polling loop; it stops when the context is cancelled.
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()
	go application.Collector.Run(collectorCtx)

	// Start HTTP server
	server := &http.Server{
		Addr:           ":" + application.Config.ServerPort,
		Handler:        application.Router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		application.Logger.Info("HTTP server starting", zap.String("port", application.Config.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			application.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-sigChan
	application.Logger.Info("shutting down server")
	stopCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		application.Logger.Error("server shutdown error", zap.Error(err))
	}
}
