// Package selstore keeps exported selections in SQLite so a checked subset
// can be restored after the result is reloaded or the program restarts.
package selstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// ErrNotFound is returned by Load when nothing was saved for a comparison.
var ErrNotFound = errors.New("selstore: no saved selection")

const createTableSQL = `CREATE TABLE IF NOT EXISTS selections (
	comparison TEXT NOT NULL,
	object_id  TEXT NOT NULL,
	saved_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (comparison, object_id)
)`

// Saved summarizes one stored selection.
type Saved struct {
	Comparison string
	Count      int
	SavedAt    time.Time
}

// Store provides SQLite-backed selection storage.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("selstore: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("selstore: open db: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("selstore: create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save replaces the selection stored for comparison with ids. Saving an
// empty selection removes the entry.
func (s *Store) Save(comparison string, ids []schema.ID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("selstore save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM selections WHERE comparison = ?`, comparison); err != nil {
		return fmt.Errorf("selstore save: %w", err)
	}
	now := time.Now().UTC()
	for _, id := range ids {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO selections (comparison, object_id, saved_at) VALUES (?, ?, ?)`,
			comparison, string(id), now,
		); err != nil {
			return fmt.Errorf("selstore save: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("selstore save: %w", err)
	}
	return nil
}

// Load returns the identities saved for comparison, sorted.
func (s *Store) Load(comparison string) ([]schema.ID, error) {
	rows, err := s.db.Query(
		`SELECT object_id FROM selections WHERE comparison = ? ORDER BY object_id`,
		comparison,
	)
	if err != nil {
		return nil, fmt.Errorf("selstore load: %w", err)
	}
	defer rows.Close()

	var ids []schema.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("selstore scan: %w", err)
		}
		ids = append(ids, schema.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("selstore rows: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return ids, nil
}

// List returns a summary of every stored selection, most recent first.
func (s *Store) List() ([]Saved, error) {
	rows, err := s.db.Query(
		`SELECT comparison, COUNT(*), MAX(saved_at)
		 FROM selections
		 GROUP BY comparison
		 ORDER BY MAX(saved_at) DESC, comparison`,
	)
	if err != nil {
		return nil, fmt.Errorf("selstore list: %w", err)
	}
	defer rows.Close()

	var out []Saved
	for rows.Next() {
		var sv Saved
		var savedAt string
		if err := rows.Scan(&sv.Comparison, &sv.Count, &savedAt); err != nil {
			return nil, fmt.Errorf("selstore scan: %w", err)
		}
		sv.SavedAt = parseTime(savedAt)
		out = append(out, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("selstore rows: %w", err)
	}
	return out, nil
}

// Delete removes the selection stored for comparison.
func (s *Store) Delete(comparison string) error {
	if _, err := s.db.Exec(`DELETE FROM selections WHERE comparison = ?`, comparison); err != nil {
		return fmt.Errorf("selstore delete: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// parseTime reads an aggregated timestamp. MAX() loses the column type, so
// the driver hands back the stored text.
func parseTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
