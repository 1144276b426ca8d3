package models

// PlayerGameStats accumulates one player's scoring and foul counts for a
// single game. Points is always incremented together with the made-shot
// counter that produced it, so it never drifts from the weighted sum.
type PlayerGameStats struct {
	Points         int `json:"points"`
	OnePointMade   int `json:"onePointMade"`
	TwoPointMade   int `json:"twoPointMade"`
	ThreePointMade int `json:"threePointMade"`
	Fouls          int `json:"fouls"`
}

// RosterEntry is one lineup slot with the stats attributed to it during
// event reconstruction.
type RosterEntry struct {
	PlayerID int             `json:"playerId"`
	PersonID int             `json:"personId"`
	Number   string          `json:"number"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Starter  bool            `json:"starter"`
	Played   bool            `json:"played"`
	Stats    PlayerGameStats `json:"stats"`
}

// CountedAsPlayed reports whether this roster slot qualifies as a played
// game: the feed's played or starter flag, any made shot, or any foul.
func (r *RosterEntry) CountedAsPlayed() bool {
	return r.Played || r.Starter ||
		r.Stats.Points != 0 || r.Stats.Fouls != 0 ||
		r.Stats.OnePointMade != 0 || r.Stats.TwoPointMade != 0 || r.Stats.ThreePointMade != 0
}

// TeamStructure is the reconstructed view of one team for one game.
// TeamName is the first non-empty name seen across the team's events.
type TeamStructure struct {
	TeamID   int            `json:"teamId"`
	TeamName string         `json:"teamName"`
	Roster   []*RosterEntry `json:"roster"`
}

// GameMetrics is the computed outcome of one game from the tracked team's
// perspective. Consumed by the schedule merge and the season records scan.
type GameMetrics struct {
	GameID         int    `json:"gameId"`
	Opponent       string `json:"opponent"`
	OpponentTeamID int    `json:"opponentTeamId"`
	KogPoints      int    `json:"kogPoints"`
	OpponentPoints int    `json:"opponentPoints"`
	PointDiff      int    `json:"pointDiff"`
}
