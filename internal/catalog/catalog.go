// Package catalog indexes session directories on disk (path, display
// name, last-opened time) so an external shell can list and reopen
// recent sessions. It is never consulted by persist.Load/Save: the
// session folder itself is always authoritative.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteDatetimeFormats are the formats SQLite's datetime() can produce.
var sqliteDatetimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseSQLiteDatetime(s string) (time.Time, error) {
	for _, layout := range sqliteDatetimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse datetime %q", s)
}

// Entry is a single indexed session directory.
type Entry struct {
	Path       string
	Name       string
	SessionID  string
	LastOpened time.Time
}

// Catalog wraps a SQLite database indexing known session directories.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath and ensures its
// table exists. Use ":memory:" for an in-memory catalog.
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		path        TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		last_opened DATETIME NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error { return c.db.Close() }

// Touch records that path was opened now, inserting or updating its
// entry. Name and sessionID are updated on every touch so renames and
// id rotations stay current.
func (c *Catalog) Touch(path, sessionID, name string) error {
	_, err := c.db.Exec(
		`INSERT INTO sessions (path, session_id, name, last_opened)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(path)
		 DO UPDATE SET session_id = excluded.session_id, name = excluded.name, last_opened = datetime('now')`,
		path, sessionID, name,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Remove deletes path's entry. No-op if absent.
func (c *Catalog) Remove(path string) error {
	_, err := c.db.Exec(`DELETE FROM sessions WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Recent returns the limit most recently opened sessions, newest first.
func (c *Catalog) Recent(limit int) ([]Entry, error) {
	rows, err := c.db.Query(
		`SELECT path, session_id, name, last_opened
		 FROM sessions ORDER BY last_opened DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var lastOpenedStr string
		if err := rows.Scan(&e.Path, &e.SessionID, &e.Name, &lastOpenedStr); err != nil {
			return nil, fmt.Errorf("scan session entry: %w", err)
		}
		e.LastOpened, _ = parseSQLiteDatetime(lastOpenedStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry for path, or nil if not indexed.
func (c *Catalog) Get(path string) (*Entry, error) {
	var e Entry
	var lastOpenedStr string
	err := c.db.QueryRow(
		`SELECT path, session_id, name, last_opened FROM sessions WHERE path = ?`, path,
	).Scan(&e.Path, &e.SessionID, &e.Name, &lastOpenedStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session entry: %w", err)
	}
	e.LastOpened, _ = parseSQLiteDatetime(lastOpenedStr)
	return &e, nil
}
