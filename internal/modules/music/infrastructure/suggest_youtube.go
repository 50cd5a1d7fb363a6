package infrastructure

import (
	"context"
	"fmt"

	"github.com/ppalone/ytsearch"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

// YouTubeSuggestionProvider backs autocomplete with a native YouTube search,
// keeping suggestion lookups off the streaming node.
type YouTubeSuggestionProvider struct {
	client *ytsearch.Client
}

// NewYouTubeSuggestionProvider creates a new YouTubeSuggestionProvider.
func NewYouTubeSuggestionProvider() *YouTubeSuggestionProvider {
	return &YouTubeSuggestionProvider{client: ytsearch.NewClient(nil)}
}

func (p *YouTubeSuggestionProvider) Name() string {
	return "youtube"
}

// Suggest returns up to limit video candidates for the query.
func (p *YouTubeSuggestionProvider) Suggest(ctx context.Context, query string, limit int) ([]ports.Suggestion, error) {
	result, err := p.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	suggestions := make([]ports.Suggestion, 0, limit)
	for _, video := range result.Results {
		if video.VideoID == "" {
			continue
		}
		title := video.Title
		if video.Channel != "" {
			title += " - " + video.Channel
		}
		suggestions = append(suggestions, ports.Suggestion{
			Title: title,
			URL:   "https://www.youtube.com/watch?v=" + video.VideoID,
			ID:    video.VideoID,
		})
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}

// Ensure YouTubeSuggestionProvider implements ports.SuggestionProvider.
var _ ports.SuggestionProvider = (*YouTubeSuggestionProvider)(nil)
