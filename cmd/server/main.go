package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chunkd/internal/api"
	"chunkd/internal/config"
	"chunkd/internal/pipeline"
	"chunkd/internal/refine"
	"chunkd/internal/sink"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize optional collaborators.
	var refiner *refine.Client
	if cfg.RefineEnabled {
		refiner = refine.NewClient(cfg.RefineURL, cfg.RefineAPIKey, cfg.RefineModel)
		log.Info("refinement enabled", "model", cfg.RefineModel)
	}

	var sk *sink.Client
	if cfg.SinkURL != "" {
		sk = sink.NewClient(cfg.SinkURL, cfg.SinkAPIKey)
		log.Info("document sink enabled", "url", cfg.SinkURL)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, refiner, sk, log)
	orch.Start()

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if refiner != nil {
			refiner.Close()
		}
		if sk != nil {
			sk.Close()
		}
	}()

	log.Info("starting chunkd", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
