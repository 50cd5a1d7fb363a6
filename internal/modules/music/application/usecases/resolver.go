package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// ResolveTimeout bounds a single provider lookup.
const ResolveTimeout = 10 * time.Second

// Resolver turns a raw user query into a playable track. URLs are loaded
// directly; free-text queries are searched across providers in a fixed
// order, stopping at the first provider that returns any candidates.
type Resolver struct {
	searcher ports.TrackSearcher
	logger   *slog.Logger
}

func NewResolver(searcher ports.TrackSearcher, logger *slog.Logger) *Resolver {
	return &Resolver{searcher: searcher, logger: logger}
}

// Resolve returns the first playable track for the query, stamped with the
// requesting user. Free-text queries fall back across search providers;
// a provider that errors or returns nothing is skipped. Candidates are
// only scanned within the result set of the provider that produced them.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string, requestedBy snowflake.ID) (*domain.Track, error) {
	query := domain.NewSearchQuery(rawQuery)
	if !query.IsValid() {
		return nil, ErrEmptyQuery
	}

	if query.IsURL {
		result, err := r.search(ctx, query.NodeQuery(domain.SourceDirect))
		if err != nil {
			return nil, err
		}
		track := firstPlayable(result)
		if track == nil {
			return nil, ErrNoResults
		}
		return toDomainTrack(track, requestedBy), nil
	}

	for _, source := range domain.FallbackOrder() {
		result, err := r.search(ctx, query.NodeQuery(source))
		if err != nil {
			r.logger.Warn("search provider failed, trying next",
				"source", string(source), "error", err)
			continue
		}
		if len(result.Tracks) == 0 {
			continue
		}
		track := firstPlayable(result)
		if track == nil {
			// This provider produced candidates but none were
			// playable. Do not fall through to the next provider.
			return nil, ErrNoResults
		}
		return toDomainTrack(track, requestedBy), nil
	}

	return nil, ErrNoResults
}

func (r *Resolver) search(ctx context.Context, nodeQuery string) (*ports.LoadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, ResolveTimeout)
	defer cancel()

	result, err := r.searcher.Search(ctx, nodeQuery)
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if result.Type == ports.LoadTypeError {
		return nil, errors.New("node reported a load error")
	}
	return result, nil
}

// firstPlayable returns the first candidate with encoded track data, or
// nil if the result set holds none.
func firstPlayable(result *ports.LoadResult) *ports.TrackInfo {
	for _, candidate := range result.Tracks {
		if candidate.Encoded != "" {
			return candidate
		}
	}
	return nil
}

func toDomainTrack(info *ports.TrackInfo, requestedBy snowflake.ID) *domain.Track {
	return &domain.Track{
		Encoded:      info.Encoded,
		Title:        info.Title,
		Author:       info.Author,
		Duration:     info.Duration,
		URI:          info.URI,
		ThumbnailURL: info.ThumbnailURL,
		SourceName:   info.SourceName,
		IsStream:     info.IsStream,
		RequestedBy:  &requestedBy,
	}
}
