package upload

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB remembers which plans were submitted, with what content, and which
// workout each one became. Drafts themselves are never stored.
type StateDB struct {
	db *sql.DB
}

// Submission is the last successful submission of a plan.
type Submission struct {
	Hash      string
	WorkoutID string
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS submitted_plans (
		plan_key     TEXT PRIMARY KEY,
		hash         TEXT NOT NULL,
		workout_id   TEXT NOT NULL,
		submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Lookup returns the last submission under key, or nil if there was none.
func (s *StateDB) Lookup(key string) (*Submission, error) {
	var sub Submission
	err := s.db.QueryRow(
		`SELECT hash, workout_id FROM submitted_plans WHERE plan_key = ?`, key,
	).Scan(&sub.Hash, &sub.WorkoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MarkSubmitted records that the plan under key, with the given content hash,
// is now workoutID.
func (s *StateDB) MarkSubmitted(key, hash, workoutID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO submitted_plans (plan_key, hash, workout_id) VALUES (?, ?, ?)`,
		key, hash, workoutID,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
