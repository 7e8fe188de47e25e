package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// rosterStore persists actor-name to class mappings across sessions. The
// renderer consults it for class-colored report rows; captured reports
// themselves are never written here.
type rosterStore struct {
	db   *sql.DB
	path string
}

func openRosterStore() (*rosterStore, error) {
	dir := resolveConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return openRosterStoreAt(filepath.Join(dir, "roster.sqlite"))
}

func openRosterStoreAt(sqlitePath string) (*rosterStore, error) {
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := migrateRosterStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &rosterStore{db: db, path: sqlitePath}, nil
}

func migrateRosterStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS roster (
			name TEXT PRIMARY KEY,
			class TEXT NOT NULL,
			seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("roster store migration failed: %w", err)
		}
	}
	return nil
}

func (s *rosterStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ClassOf looks up the class recorded for name. Lookups are case-insensitive
// on the actor name.
func (s *rosterStore) ClassOf(name string) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	var class string
	err := s.db.QueryRow(
		`SELECT class FROM roster WHERE name = ? COLLATE NOCASE`, name,
	).Scan(&class)
	if err != nil {
		return "", false
	}
	return class, true
}

// Record stores or updates an actor's class and bumps its seen timestamp.
func (s *rosterStore) Record(name, class string) error {
	if s == nil || s.db == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	class = strings.ToLower(strings.TrimSpace(class))
	if name == "" || class == "" {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO roster (name, class) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET class = excluded.class, seen_at = CURRENT_TIMESTAMP`,
		name, class)
	return err
}

// All returns the roster as name -> class, mainly for the /who listing.
func (s *rosterStore) All() (map[string]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT name, class FROM roster ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, class string
		if err := rows.Scan(&name, &class); err != nil {
			return nil, err
		}
		out[name] = class
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
