package stats

import (
	"github.com/kungsholmen-og/kogstats/internal/models"
)

// AggregatePlayers folds one game's tracked-team roster into the running
// season totals, keyed by player display name. Staff and other non-player
// lineup types are excluded. Shot and foul counts are added even for
// players who did not count as having played; a zero contribution is a
// safe no-op.
func AggregatePlayers(team *models.TeamStructure, totals map[string]*models.PlayerTotals) {
	if team == nil {
		return
	}

	for _, entry := range team.Roster {
		if entry.Type != "player" {
			continue
		}

		record, ok := totals[entry.Name]
		if !ok {
			record = models.NewPlayerTotals(entry.Name)
			totals[entry.Name] = record
		}

		record.RegisterGame(
			entry.Number,
			entry.Stats.OnePointMade,
			entry.Stats.TwoPointMade,
			entry.Stats.ThreePointMade,
			entry.Stats.Fouls,
			entry.CountedAsPlayed(),
		)
	}
}
