package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmon/agent"

	"go.uber.org/zap"
)

var configPath = flag.String("config", "agent.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := agent.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	token, err := agent.LoadOrCreateToken(cfg.TokenFile)
	if err != nil {
		logger.Fatal("failed to load token", zap.Error(err))
	}

	hostname, _ := os.Hostname()
	fmt.Println("=== AGENT STARTED ===")
	fmt.Printf("Computer: %s\n", hostname)
	fmt.Printf("Token: %s\n", token)
	fmt.Println("Add this computer to the dashboard using the above token")
	fmt.Println("=====================")

	collector := agent.NewCollector(cfg.DiskPath, cfg.TopProcesses)
	router := agent.NewRouter(collector, token, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ListenPort),
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("agent listening", zap.Int("port", cfg.ListenPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("shutting down agent")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
