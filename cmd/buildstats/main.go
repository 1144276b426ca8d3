// Command buildstats rebuilds all processed game summaries and site data
// artifacts from the cached raw feeds. It takes no arguments and operates
// on the configured directory layout.
package main

import (
	"log"

	"github.com/kungsholmen-og/kogstats/internal/config"
	"github.com/kungsholmen-og/kogstats/internal/logger"
	"github.com/kungsholmen-og/kogstats/internal/pipeline"
	"github.com/kungsholmen-og/kogstats/internal/storage"
	"github.com/kungsholmen-og/kogstats/internal/telegram"
)

const configPath = "configs/config.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", configPath)

	store := openJournal(cfg)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close journal: %v", err)
			}
		}()
	}

	notifier := newNotifier(cfg)

	pipe, err := pipeline.New(cfg, store)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline: %v", err)
	}

	summary, err := pipe.Run()
	if err != nil {
		if notifier != nil {
			if sendErr := notifier.SendError(err); sendErr != nil {
				logger.Warn("Failed to send error notification: %v", sendErr)
			}
		}
		logger.Fatal("Build failed: %v", err)
	}

	if notifier != nil {
		if err := notifier.SendRunSummary(cfg.Team.Name, len(summary.GameIDs), summary.PlayersTracked, summary.Latest); err != nil {
			logger.Warn("Failed to send run summary: %v", err)
		}
	}

	logger.Info("Done")
}

// openJournal opens the run journal; the journal is operational history
// only, so failure degrades to a warning rather than aborting the build.
func openJournal(cfg *config.Config) *storage.Storage {
	store, err := storage.New(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("Journal unavailable, continuing without it: %v", err)
		return nil
	}
	if last, err := store.LastRun(); err == nil && last != nil {
		logger.Info("Previous run %s at %s processed %d games", last.ID, last.StartedAt.Format("2006-01-02 15:04:05"), last.GamesProcessed)
	}
	return store
}

func newNotifier(cfg *config.Config) *telegram.Client {
	if !cfg.Telegram.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}
	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		logger.Warn("Failed to initialize Telegram client: %v", err)
		return nil
	}
	return client
}
