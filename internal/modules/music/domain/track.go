package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track represents a playable audio track resolved from a search provider.
// The zero RequestedBy (nil) marks tracks resolved internally, e.g. when the
// queue auto-advances.
type Track struct {
	Encoded      string // opaque payload the streaming node uses to fetch the media
	Title        string
	Author       string
	Duration     time.Duration
	URI          string
	ThumbnailURL string
	SourceName   string // e.g., "youtube", "soundcloud", "bandcamp"
	IsStream     bool
	RequestedBy  *snowflake.ID
	StartedAt    *time.Time // set when playback of this instance begins
}

// IsPlayable reports whether the streaming node can fetch this track.
func (t *Track) IsPlayable() bool {
	return t.Encoded != ""
}

// MarkStarted stamps the track with the current time for elapsed-time displays.
func (t *Track) MarkStarted() {
	now := time.Now().UTC()
	t.StartedAt = &now
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
// Live streams have no fixed duration.
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
