// Package storage provides SQLite-based persistence for saved matches and
// match results. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SaveEntry is one named save slot holding a serialized match snapshot.
type SaveEntry struct {
	ID        int64
	Name      string
	Snapshot  []byte
	Turn      int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchResult records the outcome of a finished match.
type MatchResult struct {
	ID           int64
	Scenario     string
	Winner       string // Empty on a draw
	EndReason    string // "base_destroyed", "resource_threshold", "surrender", "draw"
	Turns        int
	DurationSecs int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			snapshot BLOB NOT NULL,
			turn INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_saves_updated ON saves(updated_at DESC);

		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			winner TEXT,
			end_reason TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_created ON match_results(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_match_results_scenario ON match_results(scenario);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame writes a snapshot into the named slot, overwriting any previous
// save with the same name. Returns the ID of the slot.
func (s *Store) SaveGame(name string, snapshot []byte, turn int, status string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("storage: save name must not be empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO saves (name, snapshot, turn, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   snapshot = excluded.snapshot,
		   turn = excluded.turn,
		   status = excluded.status,
		   updated_at = CURRENT_TIMESTAMP`,
		name, snapshot, turn, status,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	var id int64
	if err := s.db.QueryRow("SELECT id FROM saves WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage: cannot read back save ID: %w", err)
	}
	return id, nil
}

// LoadGame retrieves the named save slot.
// Returns nil without an error when the slot does not exist.
func (s *Store) LoadGame(name string) (*SaveEntry, error) {
	var e SaveEntry
	var createdAt, updatedAt any

	err := s.db.QueryRow(
		`SELECT id, name, snapshot, turn, status, created_at, updated_at
		 FROM saves
		 WHERE name = ?`,
		name,
	).Scan(&e.ID, &e.Name, &e.Snapshot, &e.Turn, &e.Status, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save: %w", err)
	}

	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

// ListSaves retrieves all save slots, most recently updated first.
// Snapshot payloads are omitted; use LoadGame to fetch one.
func (s *Store) ListSaves() ([]SaveEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, turn, status, created_at, updated_at
		 FROM saves
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var entries []SaveEntry
	for rows.Next() {
		var e SaveEntry
		var createdAt, updatedAt any
		if err := rows.Scan(&e.ID, &e.Name, &e.Turn, &e.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteSave removes the named save slot. Deleting a missing slot is not an
// error.
func (s *Store) DeleteSave(name string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE name = ?", name); err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}

// SaveMatchResult records the outcome of a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatchResult(result MatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO match_results (scenario, winner, end_reason, turns, duration_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		result.Scenario,
		result.Winner,
		result.EndReason,
		result.Turns,
		result.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentMatches retrieves the most recent match results.
func (s *Store) RecentMatches(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, winner, end_reason, turns, duration_secs, created_at
		 FROM match_results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match results: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var r MatchResult
		var winner sql.NullString
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Scenario, &winner, &r.EndReason, &r.Turns, &r.DurationSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if winner.Valid {
			r.Winner = winner.String
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ScenarioStats contains aggregated outcomes for one scenario.
type ScenarioStats struct {
	Scenario    string
	Played      int
	Player1Wins int
	Player2Wins int
	Draws       int
	AvgTurns    float64
}

// GetScenarioStats retrieves aggregated match outcomes for a scenario.
func (s *Store) GetScenarioStats(scenario string) (*ScenarioStats, error) {
	stats := &ScenarioStats{Scenario: scenario}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = 'player1' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 'player2' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner IS NULL OR winner = '' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(turns), 0)
		 FROM match_results WHERE scenario = ?`,
		scenario,
	).Scan(&stats.Played, &stats.Player1Wins, &stats.Player2Wins, &stats.Draws, &stats.AvgTurns)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}

	return stats, nil
}

// parseTime converts a scanned SQLite datetime value, which the driver may
// return as time.Time or as a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
