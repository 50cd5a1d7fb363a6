package ports

import (
	"context"
	"time"
)

// LoadType represents the type of a search result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// TrackInfo contains information about a loaded candidate track.
type TrackInfo struct {
	Encoded      string // opaque node payload; empty marks the candidate unplayable
	Title        string
	Author       string
	Duration     time.Duration
	URI          string
	ThumbnailURL string
	SourceName   string
	IsStream     bool
}

// LoadResult represents an ordered candidate set from one provider query.
type LoadResult struct {
	Type   LoadType
	Tracks []*TrackInfo
}

// TrackSearcher queries the streaming node's upstream search providers.
type TrackSearcher interface {
	// Search resolves a node query (a direct URL or "<prefix>:<terms>")
	// into an ordered candidate set.
	Search(ctx context.Context, query string) (*LoadResult, error)
}
