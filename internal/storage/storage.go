// Package storage provides a SQLite-backed journal of feed downloads and
// pipeline runs. The journal is operational history only; published site
// artifacts never read from it.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kungsholmen-og/kogstats/internal/models"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database for journal operations.
type Storage struct {
	db *sql.DB
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/kogstats/journal.db.
func New(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "kogstats", "journal.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id   INTEGER NOT NULL,
			url        TEXT NOT NULL,
			status     TEXT NOT NULL,
			bytes      INTEGER NOT NULL DEFAULT 0,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_match ON fetches(match_id)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			started_at      INTEGER NOT NULL,
			finished_at     INTEGER NOT NULL,
			games_processed INTEGER NOT NULL,
			players_tracked INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordFetch journals one feed download attempt.
func (s *Storage) RecordFetch(rec *models.FetchRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid fetch record: %w", err)
	}
	_, err := s.db.Exec(`
		INSERT INTO fetches (match_id, url, status, bytes, fetched_at)
		VALUES (?,?,?,?,?)`,
		rec.MatchID, rec.URL, rec.Status, rec.Bytes, rec.FetchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}
	return nil
}

// RecentFetches returns the newest fetch records, most recent first.
func (s *Storage) RecentFetches(limit int) ([]models.FetchRecord, error) {
	rows, err := s.db.Query(`
		SELECT match_id, url, status, bytes, fetched_at
		FROM fetches ORDER BY fetched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetches: %w", err)
	}
	defer rows.Close()

	var fetches []models.FetchRecord
	for rows.Next() {
		var rec models.FetchRecord
		var fetchedAtNano int64
		if err := rows.Scan(&rec.MatchID, &rec.URL, &rec.Status, &rec.Bytes, &fetchedAtNano); err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}
		rec.FetchedAt = time.Unix(0, fetchedAtNano)
		fetches = append(fetches, rec)
	}
	return fetches, rows.Err()
}

// RecordRun journals one completed pipeline run.
func (s *Storage) RecordRun(rec *models.RunRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid run record: %w", err)
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, games_processed, players_tracked)
		VALUES (?,?,?,?,?)`,
		rec.ID, rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano(),
		rec.GamesProcessed, rec.PlayersTracked,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when the journal
// holds none.
func (s *Storage) LastRun() (*models.RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, started_at, finished_at, games_processed, players_tracked
		FROM runs ORDER BY started_at DESC LIMIT 1`)

	var rec models.RunRecord
	var startedAtNano, finishedAtNano int64
	err := row.Scan(&rec.ID, &startedAtNano, &finishedAtNano, &rec.GamesProcessed, &rec.PlayersTracked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last run: %w", err)
	}
	rec.StartedAt = time.Unix(0, startedAtNano)
	rec.FinishedAt = time.Unix(0, finishedAtNano)
	return &rec, nil
}
