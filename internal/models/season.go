package models

import (
	"math"
	"sort"
)

// PlayerTotals carries one player's season-cumulative counts, keyed by
// display name across games. Jersey numbers can change between games, so
// every sighting is kept alongside the most recent one.
type PlayerTotals struct {
	Name          string
	Numbers       map[string]bool
	LastNumber    string
	GamesPlayed   int
	FreeThrows    int
	TwoPointers   int
	ThreePointers int
	Fouls         int
}

// NewPlayerTotals creates an empty season record for a player.
func NewPlayerTotals(name string) *PlayerTotals {
	return &PlayerTotals{
		Name:    name,
		Numbers: make(map[string]bool),
	}
}

// RegisterGame folds one game's counts into the season totals. The shot
// and foul counts are added unconditionally (a zero contribution is a
// no-op); GamesPlayed only advances when the game counted as played.
func (p *PlayerTotals) RegisterGame(number string, freeThrows, twoPointers, threePointers, fouls int, countedAsPlayed bool) {
	if number != "" {
		p.Numbers[number] = true
		p.LastNumber = number
	}
	if countedAsPlayed {
		p.GamesPlayed++
	}
	p.FreeThrows += freeThrows
	p.TwoPointers += twoPointers
	p.ThreePointers += threePointers
	p.Fouls += fouls
}

// TotalPoints is always derived from the made-shot counts, never stored.
func (p *PlayerTotals) TotalPoints() int {
	return p.FreeThrows + p.TwoPointers*2 + p.ThreePointers*3
}

// DisplayNumber picks one canonical jersey number: the most recently seen
// one, falling back to the shortest (then lexicographically smallest)
// number ever sighted, or empty if none was.
func (p *PlayerTotals) DisplayNumber() string {
	if p.LastNumber != "" {
		return p.LastNumber
	}
	if len(p.Numbers) == 0 {
		return ""
	}
	numbers := make([]string, 0, len(p.Numbers))
	for n := range p.Numbers {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool {
		if len(numbers[i]) != len(numbers[j]) {
			return len(numbers[i]) < len(numbers[j])
		}
		return numbers[i] < numbers[j]
	})
	return numbers[0]
}

// PlayerRow is the published shape of one season table row.
type PlayerRow struct {
	Name            string  `json:"name"`
	Number          string  `json:"number"`
	GamesPlayed     int     `json:"gamesPlayed"`
	FreeThrowsMade  int     `json:"freeThrowsMade"`
	FieldGoalsMade  int     `json:"fieldGoalsMade"`
	ThreePointsMade int     `json:"threePointsMade"`
	FoulsMade       int     `json:"foulsMade"`
	TotalPoints     int     `json:"totalPoints"`
	PointsPerGame   float64 `json:"pointsPerGame"`
}

// Row materializes the published season table row for this player.
func (p *PlayerTotals) Row() PlayerRow {
	var ppg float64
	if p.GamesPlayed > 0 {
		ppg = math.Round(float64(p.TotalPoints())/float64(p.GamesPlayed)*10) / 10
	}
	return PlayerRow{
		Name:            p.Name,
		Number:          p.DisplayNumber(),
		GamesPlayed:     p.GamesPlayed,
		FreeThrowsMade:  p.FreeThrows,
		FieldGoalsMade:  p.TwoPointers + p.ThreePointers,
		ThreePointsMade: p.ThreePointers,
		FoulsMade:       p.Fouls,
		TotalPoints:     p.TotalPoints(),
		PointsPerGame:   ppg,
	}
}
