package ports

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// HistoryEntry is one played track in a guild's playback history.
type HistoryEntry struct {
	GuildID     snowflake.ID
	Title       string
	Author      string
	URI         string
	RequestedBy *snowflake.ID // nil for internally resolved tracks
	StartedAt   time.Time
}

// HistoryStore persists playback history.
type HistoryStore interface {
	// Record stores one entry.
	Record(ctx context.Context, entry HistoryEntry) error

	// Recent returns the guild's most recent entries, newest first.
	Recent(ctx context.Context, guildID snowflake.ID, limit int) ([]HistoryEntry, error)

	// Close releases the underlying storage.
	Close() error
}
