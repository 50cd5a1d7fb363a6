package ping

import (
	"github.com/bwmarrin/discordgo"

	"github.com/resonabot/resona/internal/bot"
)

func init() {
	bot.Register(&Module{})
}

// Module provides the /ping liveness command.
type Module struct{}

// Name returns the module name.
func (m *Module) Name() string {
	return "ping"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Replies with Pong!",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": handlePing,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *Module) Init(_ bot.ModuleDependencies) error {
	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	return nil
}

func handlePing(_ *discordgo.Session, _ *discordgo.InteractionCreate, r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pong!",
		},
	})
}
