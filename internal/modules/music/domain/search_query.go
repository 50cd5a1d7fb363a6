package domain

import (
	"net/url"
	"strings"
)

// SearchSource identifies an upstream search provider.
type SearchSource string

const (
	// SourceYouTube searches YouTube.
	SourceYouTube SearchSource = "ytsearch"
	// SourceSoundCloud searches SoundCloud.
	SourceSoundCloud SearchSource = "scsearch"
	// SourceBandcamp searches Bandcamp.
	SourceBandcamp SearchSource = "bcsearch"
	// SourceDirect indicates a direct URL (no search prefix).
	SourceDirect SearchSource = ""
)

// FallbackOrder is the fixed provider order tried for free-text queries.
// Resolution stops at the first provider returning at least one candidate.
func FallbackOrder() []SearchSource {
	return []SearchSource{SourceYouTube, SourceSoundCloud, SourceBandcamp}
}

// SearchQuery represents a classified query for resolving tracks.
type SearchQuery struct {
	Query  string       // the search term or canonicalized URL
	Source SearchSource // the search source for free text
	IsURL  bool         // whether the query is a direct URL
}

// NewSearchQuery classifies user input. URLs are passed to the node directly,
// after canonicalization for YouTube links; anything else is free text
// searched through the provider fallback chain.
func NewSearchQuery(input string) *SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return &SearchQuery{
			Query:  canonicalizeURL(input),
			Source: SourceDirect,
			IsURL:  true,
		}
	}

	return &SearchQuery{
		Query:  input,
		Source: SourceYouTube,
		IsURL:  false,
	}
}

// NodeQuery returns the query formatted for the streaming node: a bare URL
// for direct links, or "<prefix>:<terms>" for provider searches.
func (q *SearchQuery) NodeQuery(source SearchSource) string {
	if q.IsURL {
		return q.Query
	}
	return string(source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}

// canonicalizeURL reduces a YouTube link to its canonical single-video form,
// stripping playlist and tracking parameters so a playlist-qualified link
// still resolves to the intended item. Non-YouTube URLs pass through.
func canonicalizeURL(raw string) string {
	parseable := raw
	if strings.HasPrefix(parseable, "www.") {
		parseable = "https://" + parseable
	}

	u, err := url.Parse(parseable)
	if err != nil {
		return raw
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if u.Path != "/watch" {
			return raw
		}
		id := u.Query().Get("v")
		if id == "" {
			return raw
		}
		return "https://www.youtube.com/watch?v=" + id

	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return raw
		}
		return "https://www.youtube.com/watch?v=" + id

	default:
		return raw
	}
}
