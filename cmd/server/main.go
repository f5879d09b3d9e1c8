package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/steelbid/internal/api"
	"github.com/dgallion1/steelbid/internal/archive"
	"github.com/dgallion1/steelbid/internal/config"
	"github.com/dgallion1/steelbid/internal/extract"
	"github.com/dgallion1/steelbid/internal/pipeline"
	"github.com/dgallion1/steelbid/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(); err != nil {
		log.Error("load .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	stats := extract.NewLLMStats(time.Hour)
	extractor, err := newExtractor(ctx, cfg, stats)
	if err != nil {
		log.Error("init extractor", "error", err)
		os.Exit(1)
	}
	archiver, err := newArchiver(ctx, cfg)
	if err != nil {
		log.Error("init archive", "error", err)
		os.Exit(1)
	}
	st, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("init store", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, extractor, archiver, log)
	if err := orch.Start(ctx); err != nil {
		log.Error("start pipeline", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, st, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		extractor.Close()
		if err := st.Close(); err != nil {
			log.Warn("close store", "error", err)
		}
	}()

	log.Info("starting steelbid",
		"port", cfg.Port,
		"provider", cfg.ExtractProvider,
		"model", extractor.Model(),
		"database", cfg.DatabaseURL != "",
		"archive", cfg.ArchiveBucket != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newExtractor(ctx context.Context, cfg config.Config, stats *extract.LLMStats) (extract.Extractor, error) {
	switch cfg.ExtractProvider {
	case config.ProviderGemini:
		return extract.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, stats)
	case config.ProviderClaude:
		return extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, stats), nil
	default:
		return nil, fmt.Errorf("unknown extract provider %q", cfg.ExtractProvider)
	}
}

func newArchiver(ctx context.Context, cfg config.Config) (archive.Archiver, error) {
	if cfg.ArchiveBucket == "" {
		return archive.Noop{}, nil
	}
	return archive.NewS3Archiver(ctx, archive.S3Config{
		Bucket:          cfg.ArchiveBucket,
		Region:          cfg.ArchiveRegion,
		Endpoint:        cfg.ArchiveEndpoint,
		AccessKeyID:     cfg.ArchiveAccessKeyID,
		SecretAccessKey: cfg.ArchiveSecretAccessKey,
	})
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemory(cfg.InitialSettings), nil
	}
	return store.OpenPostgres(ctx, cfg.DatabaseURL, cfg.InitialSettings)
}
