package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgrims/doclens/internal/api"
	"github.com/mgrims/doclens/internal/config"
	"github.com/mgrims/doclens/internal/embed"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/pipeline"
	"github.com/mgrims/doclens/internal/relevance"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Keyword tables are load-once: a malformed file is fatal at startup.
	tables := keywords.Default()
	if cfg.KeywordConfigPath != "" {
		var err error
		tables, err = keywords.Load(cfg.KeywordConfigPath)
		if err != nil {
			log.Error("invalid keyword configuration", "error", err, "path", cfg.KeywordConfigPath)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	embedClient := embed.NewClient(cfg.EmbedBaseURL, cfg.EmbedAPIKey, cfg.EmbedModel, cfg.EmbedDimensions, log)

	// Initialize pipeline.
	var embedder relevance.Embedder = embedClient
	orch := pipeline.NewOrchestrator(cfg, tables, embedder, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, embedClient, log, cfg)

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

		embedClient.Close()
	}()

	log.Info("starting doclens", "port", cfg.Port, "strategy", cfg.LevelStrategy)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
