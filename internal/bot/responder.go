package bot

import "github.com/bwmarrin/discordgo"

// Responder is how command handlers reply to an interaction. Handlers take
// it as a parameter rather than calling the session directly, so tests can
// capture responses without a gateway connection.
type Responder interface {
	Respond(response *discordgo.InteractionResponse) error
}

// DiscordResponder replies through a live session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder binds a session to one interaction.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// MockResponder records the last response for assertions and returns Err
// when set.
type MockResponder struct {
	LastResponse *discordgo.InteractionResponse
	Err          error
}

func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.LastResponse = response
	return m.Err
}
