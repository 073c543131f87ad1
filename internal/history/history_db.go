// Package history keeps a local log of request outcomes.
//
// Only metadata is stored: endpoint, outcome, error kind, status and
// duration. Request bodies, passphrases and key material never reach disk.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/gpgdesk/internal/migrations"
	"github.com/studiowebux/gpgdesk/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Save(entry types.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry has no id")
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Local().Format(timestampLayout)
	}

	query := `
		INSERT INTO requests (
			id, timestamp, profile_name, endpoint, outcome, error_kind, status_code, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorKind sql.NullString
	if entry.ErrorKind != "" {
		errorKind = sql.NullString{String: entry.ErrorKind, Valid: true}
	}

	_, err := m.db.Exec(query,
		entry.ID,
		entry.Timestamp,
		entry.Profile,
		entry.Endpoint,
		entry.Outcome,
		errorKind,
		entry.StatusCode,
		entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// Load returns entries for a profile, newest first. An empty profile loads all.
// A limit of zero or less means no limit.
func (m *Manager) Load(profileName string, limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, profile_name, endpoint, outcome, error_kind, status_code, duration_ms
		FROM requests
		WHERE ? = '' OR profile_name = ?
		ORDER BY timestamp DESC, seq DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := m.db.Query(query, profileName, profileName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var errorKind sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Profile,
			&entry.Endpoint,
			&entry.Outcome,
			&errorKind,
			&entry.StatusCode,
			&entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		// Parse timestamp as local time
		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, timestamp)
		}
		if err == nil {
			timestamp = parsed.Format(timestampLayout)
		}

		entry.Timestamp = timestamp
		entry.ErrorKind = errorKind.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM requests")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM requests").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
