package ports

import "context"

// Suggestion is a single autocomplete candidate.
type Suggestion struct {
	Title string
	URL   string
	ID    string // provider-scoped media identifier, used for deduplication
}

// SuggestionProvider performs a lightweight native search for autocomplete.
// Providers are queried concurrently and must respect the context deadline.
type SuggestionProvider interface {
	// Name identifies the provider in logs and suggestion labels.
	Name() string

	// Suggest returns up to limit candidates for the query.
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}
