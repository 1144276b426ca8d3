// Package models defines the raw Profixio EMP feed shapes and the derived
// structures published to the site: per-game team stats, season player
// totals, schedule entries, and journal records.
package models

import "encoding/json"

// RawFeed mirrors one Profixio EMP feed document for a single game.
// Only the fields the pipeline consumes are declared; everything else is
// preserved via the verbatim pretty copy of the raw document.
type RawFeed struct {
	Lineup    []LineupMember `json:"lineup"`
	Events    []RawEvent     `json:"events"`
	GameState *GameState     `json:"gamestate"`
}

// LineupMember is one roster slot in the feed's lineup listing.
// WebTeamID of zero means the member cannot be attributed to a team.
type LineupMember struct {
	ID        int    `json:"id"`
	PersonID  int    `json:"personId"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Starter   bool   `json:"starter"`
	Played    bool   `json:"played"`
	WebTeamID int    `json:"webTeamId"`
}

// RawEvent is one atomic occurrence inside a game feed. The meaning of
// Goals depends on EventTypeID. Person is nil for team-level events.
type RawEvent struct {
	EventTypeID int          `json:"eventTypeId"`
	TeamID      int          `json:"teamId"`
	TeamName    string       `json:"teamName"`
	Goals       int          `json:"goals"`
	Person      *EventPerson `json:"person"`
}

// EventPerson carries the opaque player reference on an event. The id
// must be joined against the lineup listing to mean anything.
type EventPerson struct {
	ID int `json:"id"`
}

// GameState is the optional live-state block of a feed. Both fields are
// passed through verbatim into the per-game summary, so they stay raw.
type GameState struct {
	CurrentScore json.RawMessage `json:"currentScore"`
	Period       json.RawMessage `json:"period"`
}
