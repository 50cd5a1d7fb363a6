package usecases

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

const (
	// SuggestTimeout bounds the combined provider fan-out. Autocomplete
	// responses go stale quickly, so this stays short.
	SuggestTimeout = 2500 * time.Millisecond

	// MaxSuggestions caps the merged suggestion list.
	MaxSuggestions = 10

	// MinSuggestQueryLength skips lookups for queries too short to rank.
	MinSuggestQueryLength = 2
)

// Suggester fans a query out to native search providers and merges the
// results for command autocomplete. Lookups are rate limited per process
// to stay clear of provider throttling.
type Suggester struct {
	providers []ports.SuggestionProvider
	limiter   *rate.Limiter
	logger    *slog.Logger
}

func NewSuggester(providers []ports.SuggestionProvider, logger *slog.Logger) *Suggester {
	return &Suggester{
		providers: providers,
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		logger:    logger,
	}
}

// Suggest returns merged, deduplicated candidates for the partial query.
// Provider failures degrade to fewer suggestions, never to an error.
func (s *Suggester) Suggest(ctx context.Context, query string) []ports.Suggestion {
	query = strings.TrimSpace(query)
	if len(query) < MinSuggestQueryLength {
		return nil
	}
	if !s.limiter.Allow() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, SuggestTimeout)
	defer cancel()

	results := make([][]ports.Suggestion, len(s.providers))
	var wg sync.WaitGroup
	for i, provider := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suggestions, err := provider.Suggest(ctx, query, MaxSuggestions)
			if err != nil {
				s.logger.Debug("suggestion provider failed",
					"provider", provider.Name(), "error", err)
				return
			}
			results[i] = suggestions
		}()
	}
	wg.Wait()

	// Providers often surface the same upload. Interleave result lists so
	// each provider contributes near the top, keeping the first sighting
	// of each media ID.
	seen := make(map[string]struct{})
	merged := make([]ports.Suggestion, 0, MaxSuggestions)
	for offset := 0; offset < MaxSuggestions; offset++ {
		for _, list := range results {
			if offset >= len(list) {
				continue
			}
			candidate := list[offset]
			if candidate.ID != "" {
				if _, dup := seen[candidate.ID]; dup {
					continue
				}
				seen[candidate.ID] = struct{}{}
			}
			merged = append(merged, candidate)
			if len(merged) == MaxSuggestions {
				return merged
			}
		}
	}
	return merged
}
