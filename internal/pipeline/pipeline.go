// Package pipeline sequences one full build run: reconstruct every cached
// game feed, aggregate tracked-team season totals, merge outcomes into the
// schedule, and publish the site artifacts.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kungsholmen-og/kogstats/internal/config"
	"github.com/kungsholmen-og/kogstats/internal/logger"
	"github.com/kungsholmen-og/kogstats/internal/models"
	"github.com/kungsholmen-og/kogstats/internal/publish"
	"github.com/kungsholmen-og/kogstats/internal/schedule"
	"github.com/kungsholmen-og/kogstats/internal/stats"
	"github.com/kungsholmen-og/kogstats/internal/storage"
)

var rawNamePattern = regexp.MustCompile(`^game_(\d+)\.json$`)

// Summary reports what one run processed, for logging and notifications.
type Summary struct {
	GameIDs        []int
	PlayersTracked int
	Metrics        []models.GameMetrics
	Latest         *models.GameMetrics
}

// Pipeline runs the feed-to-artifacts aggregation for one season.
type Pipeline struct {
	cfg       *config.Config
	season    schedule.Season
	publisher *publish.Publisher
	store     *storage.Storage
}

// New wires a pipeline from configuration. The journal store may be nil.
func New(cfg *config.Config, store *storage.Storage) (*Pipeline, error) {
	loc, err := cfg.Season.Location()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg: cfg,
		season: schedule.Season{
			StartMonth: cfg.Season.StartMonth,
			StartYear:  cfg.Season.StartYear,
			Location:   loc,
		},
		publisher: &publish.Publisher{
			ProcessedDir: cfg.Paths.ProcessedDir,
			SiteDataDir:  cfg.Paths.SiteDataDir,
			PlayerSort:   cfg.Players.Sort,
		},
		store: store,
	}, nil
}

// Run executes one full build. A missing raw directory is fatal; malformed
// individual feeds are logged and skipped.
func (p *Pipeline) Run() (*Summary, error) {
	startedAt := time.Now()

	if _, err := os.Stat(p.cfg.Paths.RawDir); err != nil {
		return nil, fmt.Errorf("no raw data found; add EMP feeds to %s first", p.cfg.Paths.RawDir)
	}

	fixtures, err := schedule.Load(p.cfg.Paths.ScheduleFile, p.season)
	if err != nil {
		return nil, err
	}
	links, err := publish.LoadLinks(p.cfg.Paths.LinksFile)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*models.PlayerTotals)
	summary := &Summary{}

	for _, gameID := range p.listRawGames() {
		path := filepath.Join(p.cfg.Paths.RawDir, fmt.Sprintf("game_%d.json", gameID))
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read %s: %v", path, err)
			continue
		}

		var feed models.RawFeed
		if err := json.Unmarshal(raw, &feed); err != nil {
			logger.Warn("Skipping game %d: malformed feed: %v", gameID, err)
			continue
		}

		teams := stats.BuildTeamStructures(&feed)
		if err := p.publisher.WriteGameSummary(gameID, raw, &feed, teams); err != nil {
			return nil, err
		}

		stats.AggregatePlayers(teams[p.cfg.Team.TrackedTeamID], totals)
		summary.GameIDs = append(summary.GameIDs, gameID)

		if m := stats.ComputeGameMetrics(teams, p.cfg.Team.TrackedTeamID, gameID); m != nil {
			summary.Metrics = append(summary.Metrics, *m)
			summary.Latest = m
			schedule.ApplyMetrics(fixtures, m)
		}
		logger.Debug("Processed game %d", gameID)
	}

	if err := p.publisher.WritePlayers(totals); err != nil {
		return nil, err
	}
	if err := p.publisher.WriteSchedule(schedule.Sorted(fixtures)); err != nil {
		return nil, err
	}
	if err := p.publisher.WriteLinks(links); err != nil {
		return nil, err
	}
	if err := p.publisher.WriteMetadata(summary.GameIDs, totals, summary.Metrics); err != nil {
		return nil, err
	}

	for _, player := range totals {
		if player.GamesPlayed > 0 {
			summary.PlayersTracked++
		}
	}

	logger.Info("Processed %d games, %d tracked players", len(summary.GameIDs), summary.PlayersTracked)
	p.journalRun(startedAt, summary)

	return summary, nil
}

// listRawGames scans the raw directory for game_<id>.json files and
// returns the ids in ascending order. Files with other names are ignored.
func (p *Pipeline) listRawGames() []int {
	entries, err := os.ReadDir(p.cfg.Paths.RawDir)
	if err != nil {
		return nil
	}

	var ids []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := rawNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// journalRun records the completed run; journal failures never fail the run.
func (p *Pipeline) journalRun(startedAt time.Time, summary *Summary) {
	if p.store == nil {
		return
	}
	rec := &models.RunRecord{
		ID:             uuid.New().String(),
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
		GamesProcessed: len(summary.GameIDs),
		PlayersTracked: summary.PlayersTracked,
	}
	if err := p.store.RecordRun(rec); err != nil {
		logger.Warn("Failed to journal run: %v", err)
	}
}
