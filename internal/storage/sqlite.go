package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

const schema = `
CREATE TABLE IF NOT EXISTS mastery_states (
	skill_id         TEXT NOT NULL,
	user_id          TEXT NOT NULL,
	probability      REAL NOT NULL,
	attempts         INTEGER NOT NULL DEFAULT 0,
	correct_attempts INTEGER NOT NULL DEFAULT 0,
	last_attempt     TIMESTAMP NOT NULL,
	last_update      TIMESTAMP NOT NULL,
	mastered         BOOLEAN NOT NULL DEFAULT FALSE,
	mastered_at      TIMESTAMP,
	PRIMARY KEY (user_id, skill_id)
);

CREATE TABLE IF NOT EXISTS repetition_items (
	id             TEXT PRIMARY KEY,
	skill_id       TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	interval_hours INTEGER NOT NULL,
	repetitions    INTEGER NOT NULL DEFAULT 0,
	ease_factor    REAL NOT NULL,
	next_review    TIMESTAMP NOT NULL,
	last_review    TIMESTAMP NOT NULL,
	last_decay     TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_repetition_items_user_due
	ON repetition_items (user_id, next_review);
`

// SQLite is the durable tier of the persistence port.
type SQLite struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and creates the schema.
func Open(dsn string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// applyPragmas configures SQLite for single-writer performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetState implements mastery.Store.
func (s *SQLite) GetState(ctx context.Context, skillID, userID string) (*mastery.State, error) {
	var st mastery.State
	err := s.db.GetContext(ctx, &st,
		`SELECT * FROM mastery_states WHERE user_id = ? AND skill_id = ?`,
		userID, skillID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query mastery state: %w", err)
	}
	return &st, nil
}

// PutState implements mastery.Store with an upsert keyed on (user, skill).
func (s *SQLite) PutState(ctx context.Context, state mastery.State) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO mastery_states (
			skill_id, user_id, probability, attempts, correct_attempts,
			last_attempt, last_update, mastered, mastered_at
		) VALUES (
			:skill_id, :user_id, :probability, :attempts, :correct_attempts,
			:last_attempt, :last_update, :mastered, :mastered_at
		)
		ON CONFLICT (user_id, skill_id) DO UPDATE SET
			probability = excluded.probability,
			attempts = excluded.attempts,
			correct_attempts = excluded.correct_attempts,
			last_attempt = excluded.last_attempt,
			last_update = excluded.last_update,
			mastered = excluded.mastered,
			mastered_at = excluded.mastered_at`,
		state)
	if err != nil {
		return fmt.Errorf("upsert mastery state: %w", err)
	}
	return nil
}

// UserStates implements mastery.Store, ordered by first attempt.
func (s *SQLite) UserStates(ctx context.Context, userID string) ([]mastery.State, error) {
	var states []mastery.State
	err := s.db.SelectContext(ctx, &states,
		`SELECT * FROM mastery_states WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query mastery states: %w", err)
	}
	return states, nil
}

// AllStates returns every mastery state, used to hydrate the memory tier.
func (s *SQLite) AllStates(ctx context.Context) ([]mastery.State, error) {
	var states []mastery.State
	if err := s.db.SelectContext(ctx, &states, `SELECT * FROM mastery_states ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("query mastery states: %w", err)
	}
	return states, nil
}

// GetItem implements spacedrep.Store.
func (s *SQLite) GetItem(ctx context.Context, skillID, userID string) (*spacedrep.Item, error) {
	var it spacedrep.Item
	err := s.db.GetContext(ctx, &it,
		`SELECT * FROM repetition_items WHERE user_id = ? AND skill_id = ?`,
		userID, skillID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query repetition item: %w", err)
	}
	return &it, nil
}

// PutItem implements spacedrep.Store with an upsert keyed on the item id.
func (s *SQLite) PutItem(ctx context.Context, item spacedrep.Item) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO repetition_items (
			id, skill_id, user_id, interval_hours, repetitions,
			ease_factor, next_review, last_review, last_decay
		) VALUES (
			:id, :skill_id, :user_id, :interval_hours, :repetitions,
			:ease_factor, :next_review, :last_review, :last_decay
		)
		ON CONFLICT (id) DO UPDATE SET
			interval_hours = excluded.interval_hours,
			repetitions = excluded.repetitions,
			ease_factor = excluded.ease_factor,
			next_review = excluded.next_review,
			last_review = excluded.last_review,
			last_decay = excluded.last_decay`,
		item)
	if err != nil {
		return fmt.Errorf("upsert repetition item: %w", err)
	}
	return nil
}

// UserItems implements spacedrep.Store, ordered by first scheduling.
func (s *SQLite) UserItems(ctx context.Context, userID string) ([]spacedrep.Item, error) {
	var items []spacedrep.Item
	err := s.db.SelectContext(ctx, &items,
		`SELECT * FROM repetition_items WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query repetition items: %w", err)
	}
	return items, nil
}

// AllItems returns every repetition item, used to hydrate the memory tier.
func (s *SQLite) AllItems(ctx context.Context) ([]spacedrep.Item, error) {
	var items []spacedrep.Item
	if err := s.db.SelectContext(ctx, &items, `SELECT * FROM repetition_items ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("query repetition items: %w", err)
	}
	return items, nil
}

// RemoveItem implements spacedrep.Store. Removing a nonexistent item is a
// no-op returning false.
func (s *SQLite) RemoveItem(ctx context.Context, skillID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM repetition_items WHERE user_id = ? AND skill_id = ?`,
		userID, skillID)
	if err != nil {
		return false, fmt.Errorf("delete repetition item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// UserIDs returns the distinct users holding review items.
func (s *SQLite) UserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT DISTINCT user_id FROM repetition_items ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	return ids, nil
}

// Reset drops all learner data. Used by the explicit reset command.
func (s *SQLite) Reset(ctx context.Context) error {
	for _, table := range []string{"mastery_states", "repetition_items"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// PLUGGA_DB env var, then $XDG_DATA_HOME/plugga/plugga.db, then
// ~/.local/share/plugga/plugga.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PLUGGA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "plugga", "plugga.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
