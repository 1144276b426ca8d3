// Package stats reconstructs per-team rosters from the flat event log of a
// game feed, aggregates tracked-team player totals across a season, and
// derives per-game outcome metrics.
package stats

import (
	"strings"

	"github.com/kungsholmen-og/kogstats/internal/models"
)

// Profixio event type codes the pipeline understands. Scoring codes carry
// a "goals" magnitude equal to made shots times the shot's point value.
const (
	eventFreeThrow    = 106
	eventTwoPointer   = 104
	eventThreePointer = 103
	eventPersonalFoul = 109
)

// BuildTeamStructures turns one raw feed into a mapping from team id to
// that team's reconstructed roster and per-player game stats.
//
// The lineup pass creates a zeroed roster slot per member and a transient
// playerID index per team; the event pass joins each event against that
// index. The index is discarded here and never reaches published output.
func BuildTeamStructures(feed *models.RawFeed) map[int]*models.TeamStructure {
	teams := make(map[int]*models.TeamStructure)
	index := make(map[int]map[int]*models.RosterEntry)

	for _, member := range feed.Lineup {
		if member.WebTeamID == 0 {
			continue
		}

		team, ok := teams[member.WebTeamID]
		if !ok {
			team = &models.TeamStructure{TeamID: member.WebTeamID}
			teams[member.WebTeamID] = team
			index[member.WebTeamID] = make(map[int]*models.RosterEntry)
		}

		entry := &models.RosterEntry{
			PlayerID: member.ID,
			PersonID: member.PersonID,
			Number:   strings.TrimSpace(member.Number),
			Name:     strings.TrimSpace(member.Name),
			Type:     member.Type,
			Starter:  member.Starter,
			Played:   member.Played,
		}
		team.Roster = append(team.Roster, entry)
		index[member.WebTeamID][entry.PlayerID] = entry
	}

	for _, event := range feed.Events {
		team, ok := teams[event.TeamID]
		if !ok {
			// Team never appeared in the lineup; team-level or stray event.
			continue
		}

		if team.TeamName == "" {
			if name := strings.TrimSpace(event.TeamName); name != "" {
				team.TeamName = name
			}
		}

		if event.Person == nil {
			continue
		}
		entry, ok := index[event.TeamID][event.Person.ID]
		if !ok {
			// Unresolvable player reference; skip silently.
			continue
		}

		applyEvent(entry, event)
	}

	return teams
}

// applyEvent folds one event into a roster slot. For scoring codes the
// made-shot count is goals divided by the shot value; uneven magnitudes
// truncate rather than error. Fouls increment unconditionally.
func applyEvent(entry *models.RosterEntry, event models.RawEvent) {
	switch event.EventTypeID {
	case eventFreeThrow:
		addShots(entry, &entry.Stats.OnePointMade, 1, event.Goals)
	case eventTwoPointer:
		addShots(entry, &entry.Stats.TwoPointMade, 2, event.Goals)
	case eventThreePointer:
		addShots(entry, &entry.Stats.ThreePointMade, 3, event.Goals)
	case eventPersonalFoul:
		entry.Stats.Fouls++
	}
}

// addShots increments a made-shot counter and the points total together,
// so points can never drift from the weighted sum of made shots.
func addShots(entry *models.RosterEntry, counter *int, value, goals int) {
	if goals == 0 {
		return
	}
	made := goals / value
	if made <= 0 {
		return
	}
	*counter += made
	entry.Stats.Points += value * made
}
