// Package schedule loads the season fixture list and merges computed game
// metrics into it.
package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kungsholmen-og/kogstats/internal/logger"
	"github.com/kungsholmen-og/kogstats/internal/models"
)

// kickoffLayout matches fixture date labels like "Sat 14.Sep 19:30" or
// "Tue 7.Oct 19:00"; days appear with and without a leading zero. The
// year is absent and inferred from the season start month.
const kickoffLayout = "Mon 2.Jan 15:04"

// Season carries the calendar context needed for kickoff parsing.
type Season struct {
	StartMonth int
	StartYear  int
	Location   *time.Location
}

// Load reads the fixture CSV into a map keyed by match id. A missing file
// yields an empty schedule; malformed rows are logged and skipped. Entries
// whose row already carries both final scores get their tracked/opponent
// scores, point differential, and result derived immediately.
func Load(path string, season Season) (map[int]*models.ScheduleEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Schedule file not found at %s; continuing with empty schedule", path)
			return map[int]*models.ScheduleEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open schedule: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return map[int]*models.ScheduleEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read schedule header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	entries := make(map[int]*models.ScheduleEntry)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping malformed schedule row: %v", err)
			continue
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rawID := field("matchId")
		if rawID == "" {
			continue
		}
		matchID, err := strconv.Atoi(rawID)
		if err != nil {
			logger.Warn("Skipping schedule row with unparseable match id %q", rawID)
			continue
		}

		homeOrAway := "away"
		if strings.EqualFold(field("homeOrAway"), "home") {
			homeOrAway = "home"
		}
		dateLabel := normalizeSpace(field("date"))

		entry := &models.ScheduleEntry{
			MatchID:    matchID,
			HomeOrAway: homeOrAway,
			Opponent:   field("opponents"),
			Location:   field("location"),
			DateLabel:  dateLabel,
			Tipoff:     ParseKickoff(dateLabel, season),
			HomeScore:  parseScore(field("homeScore")),
			AwayScore:  parseScore(field("awayScore")),
			Status:     models.StatusUpcoming,
		}

		if entry.HomeScore != nil && entry.AwayScore != nil {
			entry.Status = models.StatusPlayed
			kog, opp := *entry.HomeScore, *entry.AwayScore
			if entry.HomeOrAway == "away" {
				kog, opp = opp, kog
			}
			setOutcome(entry, kog, opp)
		}

		entries[matchID] = entry
	}

	return entries, nil
}

// ParseKickoff parses a year-less fixture date label. Months at or after
// the season start month belong to the season start year, earlier months
// to the following year. Unparseable labels degrade to nil.
func ParseKickoff(label string, season Season) *time.Time {
	label = normalizeSpace(label)
	if label == "" {
		return nil
	}

	parsed, err := time.Parse(kickoffLayout, label)
	if err != nil {
		return nil
	}

	year := season.StartYear
	if int(parsed.Month()) < season.StartMonth {
		year++
	}

	loc := season.Location
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	return &t
}

// ApplyMetrics overwrites the matching entry's scores with the computed
// game outcome, re-deriving the home/away raw scores from the entry's
// designation. Metrics for games absent from the fixture list are ignored.
func ApplyMetrics(entries map[int]*models.ScheduleEntry, m *models.GameMetrics) {
	if m == nil {
		return
	}
	entry, ok := entries[m.GameID]
	if !ok {
		return
	}

	setOutcome(entry, m.KogPoints, m.OpponentPoints)
	entry.Status = models.StatusPlayed
	entry.HasStats = true
	entry.OpponentTeamID = m.OpponentTeamID

	home, away := m.KogPoints, m.OpponentPoints
	if entry.HomeOrAway == "away" {
		home, away = away, home
	}
	entry.HomeScore = intPtr(home)
	entry.AwayScore = intPtr(away)

	if entry.Opponent == "" && m.Opponent != "" {
		entry.Opponent = m.Opponent
	}
}

// Sorted returns the schedule ordered by kickoff time ascending, with
// undated entries last; match id breaks ties deterministically.
func Sorted(entries map[int]*models.ScheduleEntry) []*models.ScheduleEntry {
	games := make([]*models.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		games = append(games, entry)
	}
	sort.Slice(games, func(i, j int) bool {
		a, b := games[i].Tipoff, games[j].Tipoff
		switch {
		case a == nil && b == nil:
			return games[i].MatchID < games[j].MatchID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return games[i].MatchID < games[j].MatchID
		}
	})
	return games
}

// setOutcome records the tracked-team view of a final score and the
// win/loss/draw classification by sign of the differential.
func setOutcome(entry *models.ScheduleEntry, kog, opponent int) {
	entry.KogScore = intPtr(kog)
	entry.OpponentScore = intPtr(opponent)
	entry.PointDiff = intPtr(kog - opponent)
	switch {
	case kog > opponent:
		entry.Result = models.ResultWin
	case kog < opponent:
		entry.Result = models.ResultLoss
	default:
		entry.Result = models.ResultDraw
	}
}

func parseScore(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return intPtr(n)
}

func intPtr(n int) *int { return &n }

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
