package presentation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/resonabot/resona/internal/modules/music/application/usecases"
)

// AutocompleteHandler serves query suggestions for the /play command.
type AutocompleteHandler struct {
	suggester *usecases.Suggester
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(suggester *usecases.Suggester) *AutocompleteHandler {
	return &AutocompleteHandler{suggester: suggester}
}

// HandlePlayQuery responds to autocomplete requests on the /play query
// option. Failures degrade to an empty choice list; Discord discards late
// responses anyway.
func (h *AutocompleteHandler) HandlePlayQuery(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
		}
	}

	suggestions := h.suggester.Suggest(context.Background(), query)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(suggestions))
	for _, suggestion := range suggestions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(suggestion.Title, 100),
			Value: suggestion.URL,
		})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		slog.Debug("failed to respond to autocomplete", "error", err)
	}
}

// truncate caps s at maxLen runes, cutting on rune boundaries so multibyte
// titles never produce invalid UTF-8.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
