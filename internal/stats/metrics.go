package stats

import (
	"strings"

	"github.com/kungsholmen-og/kogstats/internal/models"
)

// ComputeGameMetrics derives one game's final score and point differential
// from the reconstructed team structures. It returns nil when the tracked
// team is absent or no opponent can be identified.
//
// Feeds with more than two teams are not supported; the non-tracked team
// with the smallest id is taken as the opponent so repeated runs over the
// same inputs stay deterministic.
func ComputeGameMetrics(teams map[int]*models.TeamStructure, trackedTeamID, gameID int) *models.GameMetrics {
	tracked, ok := teams[trackedTeamID]
	if !ok {
		return nil
	}

	var opponent *models.TeamStructure
	for teamID, team := range teams {
		if teamID == trackedTeamID {
			continue
		}
		if opponent == nil || teamID < opponent.TeamID {
			opponent = team
		}
	}
	if opponent == nil {
		return nil
	}

	trackedPoints := teamPoints(tracked)
	opponentPoints := teamPoints(opponent)

	opponentName := strings.TrimSpace(opponent.TeamName)
	if opponentName == "" {
		opponentName = "Opponent"
	}

	return &models.GameMetrics{
		GameID:         gameID,
		Opponent:       opponentName,
		OpponentTeamID: opponent.TeamID,
		KogPoints:      trackedPoints,
		OpponentPoints: opponentPoints,
		PointDiff:      trackedPoints - opponentPoints,
	}
}

// teamPoints sums points over roster slots of lineup type "player".
func teamPoints(team *models.TeamStructure) int {
	var points int
	for _, entry := range team.Roster {
		if entry.Type == "player" {
			points += entry.Stats.Points
		}
	}
	return points
}
