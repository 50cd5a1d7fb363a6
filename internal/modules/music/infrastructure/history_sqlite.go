package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

// SQLiteHistoryStore persists playback history in a local SQLite database.
type SQLiteHistoryStore struct {
	db *sql.DB
}

// NewSQLiteHistoryStore opens (or creates) the history database at path.
func NewSQLiteHistoryStore(path string) (*SQLiteHistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(5)

	// WAL allows concurrent readers while the dispatcher writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS playback_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			uri TEXT NOT NULL,
			requested_by TEXT,
			started_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_playback_history_guild
			ON playback_history (guild_id, started_at DESC);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &SQLiteHistoryStore{db: db}, nil
}

// Record stores one history entry.
func (s *SQLiteHistoryStore) Record(ctx context.Context, entry ports.HistoryEntry) error {
	var requestedBy *string
	if entry.RequestedBy != nil {
		id := entry.RequestedBy.String()
		requestedBy = &id
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playback_history (guild_id, title, author, uri, requested_by, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.GuildID.String(), entry.Title, entry.Author, entry.URI,
		requestedBy, entry.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// Recent returns the guild's most recent entries, newest first.
func (s *SQLiteHistoryStore) Recent(ctx context.Context, guildID snowflake.ID, limit int) ([]ports.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, author, uri, requested_by, started_at
		FROM playback_history
		WHERE guild_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?`,
		guildID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ports.HistoryEntry
	for rows.Next() {
		entry := ports.HistoryEntry{GuildID: guildID}
		var requestedBy sql.NullString
		var startedAt time.Time
		if err := rows.Scan(&entry.Title, &entry.Author, &entry.URI, &requestedBy, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if requestedBy.Valid {
			id, err := snowflake.Parse(requestedBy.String)
			if err == nil {
				entry.RequestedBy = &id
			}
		}
		entry.StartedAt = startedAt.UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteHistoryStore implements ports.HistoryStore.
var _ ports.HistoryStore = (*SQLiteHistoryStore)(nil)
