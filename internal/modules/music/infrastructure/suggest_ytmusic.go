package infrastructure

import (
	"context"
	"fmt"

	"github.com/raitonoberu/ytmusic"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

// MusicSuggestionProvider backs autocomplete with a YouTube Music track
// search, which ranks official uploads above general video results.
type MusicSuggestionProvider struct{}

// NewMusicSuggestionProvider creates a new MusicSuggestionProvider.
func NewMusicSuggestionProvider() *MusicSuggestionProvider {
	return &MusicSuggestionProvider{}
}

func (p *MusicSuggestionProvider) Name() string {
	return "ytmusic"
}

// Suggest returns up to limit track candidates for the query. The ytmusic
// client has no context support, so the search runs in a goroutine and is
// abandoned on deadline.
func (p *MusicSuggestionProvider) Suggest(ctx context.Context, query string, limit int) ([]ports.Suggestion, error) {
	type searchResult struct {
		suggestions []ports.Suggestion
		err         error
	}
	resultCh := make(chan searchResult, 1)

	go func() {
		search := ytmusic.TrackSearch(query)
		result, err := search.Next()
		if err != nil {
			resultCh <- searchResult{err: fmt.Errorf("ytmusic search: %w", err)}
			return
		}

		suggestions := make([]ports.Suggestion, 0, limit)
		for _, track := range result.Tracks {
			if track.VideoID == "" {
				continue
			}
			title := track.Title
			if len(track.Artists) > 0 {
				title += " - " + track.Artists[0].Name
			}
			suggestions = append(suggestions, ports.Suggestion{
				Title: title,
				URL:   "https://music.youtube.com/watch?v=" + track.VideoID,
				ID:    track.VideoID,
			})
			if len(suggestions) == limit {
				break
			}
		}
		resultCh <- searchResult{suggestions: suggestions}
	}()

	select {
	case result := <-resultCh:
		return result.suggestions, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ensure MusicSuggestionProvider implements ports.SuggestionProvider.
var _ ports.SuggestionProvider = (*MusicSuggestionProvider)(nil)
