package models

import "time"

// Schedule entry result values.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// Schedule entry status values.
const (
	StatusPlayed   = "played"
	StatusUpcoming = "upcoming"
)

// ScheduleEntry is one fixture from the season schedule, selectively
// updated when the matching game's computed metrics arrive. Pointer
// fields serialize as null while the value is unknown.
type ScheduleEntry struct {
	MatchID        int        `json:"matchId"`
	HomeOrAway     string     `json:"homeOrAway"`
	Opponent       string     `json:"opponent"`
	Location       string     `json:"location"`
	DateLabel      string     `json:"dateLabel"`
	Tipoff         *time.Time `json:"tipoff"`
	HomeScore      *int       `json:"homeScore"`
	AwayScore      *int       `json:"awayScore"`
	Status         string     `json:"status"`
	KogScore       *int       `json:"kogScore"`
	OpponentScore  *int       `json:"opponentScore"`
	PointDiff      *int       `json:"pointDiff"`
	Result         string     `json:"result,omitempty"`
	HasStats       bool       `json:"hasStats"`
	OpponentTeamID int        `json:"opponentTeamId,omitempty"`
}

// Link is one entry of the site link list, passed through unchanged.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
