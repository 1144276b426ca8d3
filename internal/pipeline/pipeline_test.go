package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kungsholmen-og/kogstats/internal/config"
	"github.com/kungsholmen-og/kogstats/internal/logger"
	"github.com/kungsholmen-og/kogstats/internal/models"
	"github.com/kungsholmen-og/kogstats/internal/publish"
)

const trackedTeamID = 1403069

func init() {
	logger.Init("error", "text")
}

// testFeed is one realistic EMP document: two teams, scoring events for
// both, and a gamestate block.
const testFeed = `{
  "lineup": [
    {"id": 1, "personId": 11, "number": "7", "name": "Alex", "type": "player", "starter": true, "played": true, "webTeamId": 1403069},
    {"id": 2, "personId": 12, "number": "12", "name": "Billie", "type": "player", "starter": false, "played": true, "webTeamId": 1403069},
    {"id": 3, "personId": 13, "name": "Coach", "type": "staff", "played": true, "webTeamId": 1403069},
    {"id": 4, "personId": 14, "number": "5", "name": "Ola", "type": "player", "starter": true, "played": true, "webTeamId": 1403100}
  ],
  "events": [
    {"eventTypeId": 1, "teamId": 1403100, "teamName": "Visby Ladies", "goals": 0},
    {"eventTypeId": 104, "teamId": 1403069, "goals": 4, "person": {"id": 1}},
    {"eventTypeId": 106, "teamId": 1403069, "goals": 1, "person": {"id": 1}},
    {"eventTypeId": 103, "teamId": 1403069, "goals": 3, "person": {"id": 2}},
    {"eventTypeId": 109, "teamId": 1403069, "goals": 0, "person": {"id": 2}},
    {"eventTypeId": 104, "teamId": 1403100, "goals": 20, "person": {"id": 4}}
  ],
  "gamestate": {"currentScore": "8 - 20", "period": 4}
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	return &config.Config{
		Team:   config.TeamConfig{TrackedTeamID: trackedTeamID, Name: "Kungsholmen OG"},
		Season: config.SeasonConfig{StartMonth: 9, StartYear: 2025, Timezone: "Europe/Stockholm"},
		Paths: config.PathsConfig{
			RawDir:       filepath.Join(base, "raw"),
			ProcessedDir: filepath.Join(base, "processed"),
			SiteDataDir:  filepath.Join(base, "site"),
			ScheduleFile: filepath.Join(base, "schedule.csv"),
			LinksFile:    filepath.Join(base, "links.txt"),
			SourcesFile:  filepath.Join(base, "sources.txt"),
		},
		Fetch:   config.FetchConfig{Timeout: 5 * time.Second, UserAgent: "test"},
		Players: config.PlayersConfig{Sort: publish.SortByPoints},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func seedRun(t *testing.T, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.RawDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.RawDir, "game_42.json"), []byte(testFeed), 0o644); err != nil {
		t.Fatal(err)
	}
	csv := `matchId,homeOrAway,opponents,location,date,homeScore,awayScore
42,away,Visby Ladies,Visby Hall,Sat 14.Sep 15:00,,
43,home,Telge,Kungsholmen Hall,Sun 12.Jan 12:30,,
`
	if err := os.WriteFile(cfg.Paths.ScheduleFile, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	links := "Standings, https://example.com/standings\n"
	if err := os.WriteFile(cfg.Paths.LinksFile, []byte(links), 0o644); err != nil {
		t.Fatal(err)
	}
}

func runPipeline(t *testing.T, cfg *config.Config) *Summary {
	t.Helper()
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	summary, err := p.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return summary
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	seedRun(t, cfg)

	summary := runPipeline(t, cfg)

	if !reflect.DeepEqual(summary.GameIDs, []int{42}) {
		t.Errorf("GameIDs = %v, want [42]", summary.GameIDs)
	}
	if summary.PlayersTracked != 2 {
		t.Errorf("PlayersTracked = %d, want 2", summary.PlayersTracked)
	}
	if summary.Latest == nil {
		t.Fatal("expected latest game metrics")
	}
	if summary.Latest.KogPoints != 8 || summary.Latest.OpponentPoints != 20 {
		t.Errorf("latest score = %d-%d, want 8-20", summary.Latest.KogPoints, summary.Latest.OpponentPoints)
	}

	// Player table: Alex 5 points (2x2P + 1FT), Billie 3 points (1x3P).
	var rows []models.PlayerRow
	readArtifact(t, cfg, "kog_players.json", &rows)
	if len(rows) != 2 {
		t.Fatalf("got %d player rows, want 2", len(rows))
	}
	if rows[0].Name != "Alex" || rows[0].TotalPoints != 5 {
		t.Errorf("top row = %+v, want Alex with 5 points", rows[0])
	}
	if rows[1].Name != "Billie" || rows[1].ThreePointsMade != 1 || rows[1].FoulsMade != 1 {
		t.Errorf("second row = %+v", rows[1])
	}

	// Schedule: game 42 merged as a loss, game 43 still upcoming.
	var games []*models.ScheduleEntry
	readArtifact(t, cfg, "kog_schedule.json", &games)
	if len(games) != 2 {
		t.Fatalf("got %d schedule entries, want 2", len(games))
	}
	played := games[0]
	if played.MatchID != 42 {
		t.Fatalf("first entry = %d, want played game 42 (earlier tipoff)", played.MatchID)
	}
	if played.Result != models.ResultLoss || played.Status != models.StatusPlayed {
		t.Errorf("game 42 result/status = %q/%q, want loss/played", played.Result, played.Status)
	}
	if played.PointDiff == nil || *played.PointDiff != -12 {
		t.Errorf("pointDiff = %v, want -12", played.PointDiff)
	}
	// Tracked team was away, so home carries the opponent score.
	if *played.HomeScore != 20 || *played.AwayScore != 8 {
		t.Errorf("home/away = (%d,%d), want (20,8)", *played.HomeScore, *played.AwayScore)
	}
	if games[1].Status != models.StatusUpcoming {
		t.Errorf("game 43 status = %q, want upcoming", games[1].Status)
	}

	var links []models.Link
	readArtifact(t, cfg, "kog_links.json", &links)
	if len(links) != 1 || links[0].Label != "Standings" {
		t.Errorf("links = %+v", links)
	}

	var meta publish.Metadata
	readArtifact(t, cfg, "last_updated.json", &meta)
	if !reflect.DeepEqual(meta.GamesProcessed, []int{42}) {
		t.Errorf("gamesProcessed = %v, want [42]", meta.GamesProcessed)
	}
	if meta.TeamRecords == nil || meta.TeamRecords.ToughestLoss == nil {
		t.Error("expected a toughest-loss record")
	}

	var gameSummary publish.GameSummary
	data, err := os.ReadFile(filepath.Join(cfg.Paths.ProcessedDir, "game_42_summary.json"))
	if err != nil {
		t.Fatalf("missing game summary: %v", err)
	}
	if err := json.Unmarshal(data, &gameSummary); err != nil {
		t.Fatal(err)
	}
	if string(gameSummary.FinalScore) != `"8 - 20"` {
		t.Errorf("finalScore = %s", gameSummary.FinalScore)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.ProcessedDir, "game_42.pretty.json")); err != nil {
		t.Errorf("missing pretty raw copy: %v", err)
	}
}

func TestRun_MissingRawDirIsFatal(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(); err == nil {
		t.Error("missing raw directory must fail the run")
	}
}

func TestRun_MalformedFeedSkipped(t *testing.T) {
	cfg := testConfig(t)
	seedRun(t, cfg)
	if err := os.WriteFile(filepath.Join(cfg.Paths.RawDir, "game_99.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary := runPipeline(t, cfg)
	if !reflect.DeepEqual(summary.GameIDs, []int{42}) {
		t.Errorf("GameIDs = %v, want [42] with malformed game skipped", summary.GameIDs)
	}
}

func TestRun_MissingScheduleAndLinksTolerated(t *testing.T) {
	cfg := testConfig(t)
	seedRun(t, cfg)
	os.Remove(cfg.Paths.ScheduleFile)
	os.Remove(cfg.Paths.LinksFile)

	runPipeline(t, cfg)

	var games []*models.ScheduleEntry
	readArtifact(t, cfg, "kog_schedule.json", &games)
	if len(games) != 0 {
		t.Errorf("got %d schedule entries, want 0", len(games))
	}
	var links []models.Link
	readArtifact(t, cfg, "kog_links.json", &links)
	if len(links) != 0 {
		t.Errorf("got %d links, want 0", len(links))
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	seedRun(t, cfg)

	runPipeline(t, cfg)
	first := snapshotArtifacts(t, cfg)

	runPipeline(t, cfg)
	second := snapshotArtifacts(t, cfg)

	for name, data := range first {
		if name == "last_updated.json" {
			continue
		}
		if string(second[name]) != string(data) {
			t.Errorf("%s changed between identical runs", name)
		}
	}

	// Metadata may only differ in the generation timestamp.
	var m1, m2 publish.Metadata
	if err := json.Unmarshal(first["last_updated.json"], &m1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second["last_updated.json"], &m2); err != nil {
		t.Fatal(err)
	}
	m1.GeneratedAt, m2.GeneratedAt = "", ""
	if !reflect.DeepEqual(m1, m2) {
		t.Errorf("metadata differs beyond generatedAt:\n%+v\n%+v", m1, m2)
	}
}

func readArtifact(t *testing.T, cfg *config.Config, name string, v any) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Paths.SiteDataDir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to decode %s: %v", name, err)
	}
}

func snapshotArtifacts(t *testing.T, cfg *config.Config) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	for _, dir := range []string{cfg.Paths.SiteDataDir, cfg.Paths.ProcessedDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				t.Fatal(err)
			}
			out[entry.Name()] = data
		}
	}
	return out
}
