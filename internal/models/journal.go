package models

import (
	"errors"
	"time"
)

// Fetch journal status values.
const (
	FetchStatusFetched = "fetched"
	FetchStatusCached  = "cached"
	FetchStatusFailed  = "failed"
)

// FetchRecord is one journaled feed download attempt.
type FetchRecord struct {
	MatchID   int
	URL       string
	Status    string
	Bytes     int
	FetchedAt time.Time
}

// Validate checks fetch record field constraints.
func (f *FetchRecord) Validate() error {
	if f.MatchID <= 0 {
		return errors.New("fetch match id must be positive")
	}
	if f.URL == "" {
		return errors.New("fetch URL must not be empty")
	}
	switch f.Status {
	case FetchStatusFetched, FetchStatusCached, FetchStatusFailed:
	default:
		return errors.New("fetch status must be fetched, cached, or failed")
	}
	if f.Bytes < 0 {
		return errors.New("fetch byte count must not be negative")
	}
	return nil
}

// RunRecord is one journaled pipeline run.
type RunRecord struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	GamesProcessed int
	PlayersTracked int
}

// Validate checks run record field constraints.
func (r *RunRecord) Validate() error {
	if r.ID == "" {
		return errors.New("run ID must not be empty")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return errors.New("run finished at must not precede started at")
	}
	if r.GamesProcessed < 0 {
		return errors.New("games processed must not be negative")
	}
	if r.PlayersTracked < 0 {
		return errors.New("players tracked must not be negative")
	}
	return nil
}
