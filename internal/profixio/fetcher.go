package profixio

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kungsholmen-og/kogstats/internal/logger"
	"github.com/kungsholmen-og/kogstats/internal/models"
	"github.com/kungsholmen-og/kogstats/internal/storage"
)

// Fetcher synchronizes the raw feed directory with a sources list,
// journaling every outcome. A previously downloaded game is never
// re-fetched; a failed download leaves the game absent until a later run.
type Fetcher struct {
	client *Client
	rawDir string
	store  *storage.Storage
}

// NewFetcher creates a fetcher writing raw feeds into rawDir. The journal
// store may be nil, in which case outcomes are only logged.
func NewFetcher(client *Client, rawDir string, store *storage.Storage) *Fetcher {
	return &Fetcher{client: client, rawDir: rawDir, store: store}
}

// Sync fetches every uncached feed in the sources list and returns the
// number of newly downloaded games. Unparseable URLs and failed fetches
// are logged and skipped; they never abort the sync.
func (f *Fetcher) Sync(ctx context.Context, sources []string) int {
	fetched := 0
	for _, url := range sources {
		matchID, err := ParseMatchID(url)
		if err != nil {
			logger.Warn("%v", err)
			continue
		}

		target := RawFeedPath(f.rawDir, matchID)
		if _, err := os.Stat(target); err == nil {
			logger.Info("Skipping game %d; cached feed found at %s", matchID, target)
			f.journal(matchID, url, models.FetchStatusCached, 0)
			continue
		}

		data, err := f.client.FetchFeed(ctx, url)
		if err != nil {
			logger.Warn("%v", err)
			f.journal(matchID, url, models.FetchStatusFailed, 0)
			continue
		}

		if err := os.MkdirAll(f.rawDir, 0o755); err != nil {
			logger.Error("Failed to create raw directory: %v", err)
			continue
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			logger.Error("Failed to write %s: %v", target, err)
			continue
		}

		logger.Info("Saved game %d -> %s", matchID, filepath.Clean(target))
		f.journal(matchID, url, models.FetchStatusFetched, len(data))
		fetched++
	}
	return fetched
}

func (f *Fetcher) journal(matchID int, url, status string, bytes int) {
	if f.store == nil {
		return
	}
	rec := &models.FetchRecord{
		MatchID:   matchID,
		URL:       url,
		Status:    status,
		Bytes:     bytes,
		FetchedAt: time.Now(),
	}
	if err := f.store.RecordFetch(rec); err != nil {
		logger.Warn("Failed to journal fetch of game %d: %v", matchID, err)
	}
}
