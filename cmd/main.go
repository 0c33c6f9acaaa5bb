package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/yapjournal/yap/internal/services"
	"github.com/yapjournal/yap/internal/shared"
	"github.com/yapjournal/yap/internal/storage"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	transcriber := services.NewTranscriptionService(config.Services.Transcription.BaseURL, nil)
	enricher := services.NewEnrichmentService(config.Services.Enrichment.BaseURL, config.Services.Enrichment.APIKey)
	journal := services.NewJournalAPIClient(config.Server.ClientURL(), nil)

	var store *storage.RecordingStore
	if config.Storage.Endpoint != "" {
		if s, err := storage.NewRecordingStore(context.Background(), config.Storage); err == nil {
			store = s
		} else {
			logger.Warn("blob storage unavailable, recordings stay local", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Journal:     journal,
		Transcriber: transcriber,
		Enricher:    enricher,
		Store:       store,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "yap",
		Usage:    "Voice journaling: record, transcribe, reflect",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
