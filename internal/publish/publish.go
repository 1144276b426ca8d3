// Package publish serializes the derived season artifacts to pretty-printed
// JSON documents for the static site, and loads the pass-through link list.
package publish

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kungsholmen-og/kogstats/internal/models"
)

// Season table sort policies.
const (
	SortByPoints = "points"
	SortByName   = "name"
)

// Publisher writes all run artifacts under the configured directories.
type Publisher struct {
	ProcessedDir string
	SiteDataDir  string
	PlayerSort   string
}

// GameSummary is the published per-game digest. FinalScore and
// PeriodsPlayed are passed through verbatim from the feed's gamestate
// block and stay null when the block is absent.
type GameSummary struct {
	GameID        int                     `json:"gameId"`
	FinalScore    json.RawMessage         `json:"finalScore"`
	PeriodsPlayed json.RawMessage         `json:"periodsPlayed"`
	TeamStats     []*models.TeamStructure `json:"teamStats"`
}

// TeamRecords holds the season-best games scanned from all game metrics.
type TeamRecords struct {
	HighestScore *models.GameMetrics `json:"highestScore"`
	BiggestWin   *models.GameMetrics `json:"biggestWin"`
	ToughestLoss *models.GameMetrics `json:"toughestLoss"`
}

// Metadata is the published run-metadata record.
type Metadata struct {
	GeneratedAt    string       `json:"generatedAt"`
	GamesProcessed []int        `json:"gamesProcessed"`
	PlayersTracked int          `json:"playersTracked"`
	TeamRecords    *TeamRecords `json:"teamRecords"`
}

// WriteGameSummary writes the per-game summary and a pretty-printed
// verbatim copy of the raw feed into the processed directory.
func (p *Publisher) WriteGameSummary(gameID int, raw []byte, feed *models.RawFeed, teams map[int]*models.TeamStructure) error {
	summary := GameSummary{
		GameID:    gameID,
		TeamStats: sortedTeams(teams),
	}
	if feed.GameState != nil {
		summary.FinalScore = feed.GameState.CurrentScore
		summary.PeriodsPlayed = feed.GameState.Period
	}

	summaryPath := filepath.Join(p.ProcessedDir, fmt.Sprintf("game_%d_summary.json", gameID))
	if err := writeJSON(summaryPath, summary); err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to pretty-print raw feed %d: %w", gameID, err)
	}
	prettyPath := filepath.Join(p.ProcessedDir, fmt.Sprintf("game_%d.pretty.json", gameID))
	if err := os.MkdirAll(p.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create processed directory: %w", err)
	}
	if err := os.WriteFile(prettyPath, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", prettyPath, err)
	}
	return nil
}

// WritePlayers publishes the season player table, restricted to players
// with at least one counted game and ordered by the configured policy.
func (p *Publisher) WritePlayers(totals map[string]*models.PlayerTotals) error {
	rows := make([]models.PlayerRow, 0, len(totals))
	for _, player := range totals {
		if player.GamesPlayed > 0 {
			rows = append(rows, player.Row())
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if p.PlayerSort == SortByPoints && rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})

	return writeJSON(filepath.Join(p.SiteDataDir, "kog_players.json"), rows)
}

// WriteSchedule publishes the merged schedule in the given order.
func (p *Publisher) WriteSchedule(games []*models.ScheduleEntry) error {
	if games == nil {
		games = []*models.ScheduleEntry{}
	}
	return writeJSON(filepath.Join(p.SiteDataDir, "kog_schedule.json"), games)
}

// WriteLinks publishes the link list unchanged.
func (p *Publisher) WriteLinks(links []models.Link) error {
	if links == nil {
		links = []models.Link{}
	}
	return writeJSON(filepath.Join(p.SiteDataDir, "kog_links.json"), links)
}

// WriteMetadata publishes the run-metadata record: generation timestamp,
// sorted distinct processed game ids, tracked-player count, and the
// season-best records scanned from all game metrics.
func (p *Publisher) WriteMetadata(gameIDs []int, totals map[string]*models.PlayerTotals, metrics []models.GameMetrics) error {
	meta := Metadata{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		GamesProcessed: distinctSorted(gameIDs),
		TeamRecords:    computeTeamRecords(metrics),
	}
	for _, player := range totals {
		if player.GamesPlayed > 0 {
			meta.PlayersTracked++
		}
	}
	return writeJSON(filepath.Join(p.SiteDataDir, "last_updated.json"), meta)
}

// computeTeamRecords scans all game metrics for the highest single-game
// score, the biggest margin win, and the worst margin loss. Nil when no
// game qualifies.
func computeTeamRecords(metrics []models.GameMetrics) *TeamRecords {
	if len(metrics) == 0 {
		return nil
	}

	records := &TeamRecords{}
	for i := range metrics {
		m := &metrics[i]
		if records.HighestScore == nil || m.KogPoints > records.HighestScore.KogPoints {
			records.HighestScore = m
		}
		if m.PointDiff > 0 && (records.BiggestWin == nil || m.PointDiff > records.BiggestWin.PointDiff) {
			records.BiggestWin = m
		}
		if m.PointDiff < 0 && (records.ToughestLoss == nil || m.PointDiff < records.ToughestLoss.PointDiff) {
			records.ToughestLoss = m
		}
	}
	return records
}

// LoadLinks reads the line-oriented "label, url" list. Blank lines and
// lines starting with '#' are ignored; lines without a comma are skipped.
// A missing file yields an empty list.
func LoadLinks(path string) ([]models.Link, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Link{}, nil
		}
		return nil, fmt.Errorf("failed to open links file: %w", err)
	}
	defer f.Close()

	links := []models.Link{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, url, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		links = append(links, models.Link{
			Label: strings.TrimSpace(label),
			URL:   strings.TrimSpace(url),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}
	return links, nil
}

func sortedTeams(teams map[int]*models.TeamStructure) []*models.TeamStructure {
	list := make([]*models.TeamStructure, 0, len(teams))
	for _, team := range teams {
		list = append(list, team)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TeamID < list[j].TeamID })
	return list
}

func distinctSorted(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
