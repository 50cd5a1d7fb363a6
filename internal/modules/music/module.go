package music

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/resonabot/resona/internal/bot"
	"github.com/resonabot/resona/internal/modules/music/application/events"
	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/application/usecases"
	"github.com/resonabot/resona/internal/modules/music/infrastructure"
	"github.com/resonabot/resona/internal/modules/music/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var (
	_ bot.Module             = (*Module)(nil)
	_ bot.ConfigurableModule = (*Module)(nil)
)

// Module provides audio playback commands.
type Module struct {
	config *Config

	node       *infrastructure.NodeAdapter
	history    *infrastructure.SQLiteHistoryStore
	bus        *events.Bus
	dispatcher *events.Dispatcher

	handlers     *presentation.Handlers
	autocomplete *presentation.AutocompleteHandler
	presence     *presentation.PresenceMonitor

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":    m.handlers.HandlePlay,
		"volume":  m.handlers.HandleVolume,
		"stop":    m.handlers.HandleStop,
		"skip":    m.handlers.HandleSkip,
		"queue":   m.handlers.HandleQueue,
		"loop":    m.handlers.HandleLoop,
		"history": m.handlers.HandleHistory,
	}
}

// EventHandlers returns the gateway event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init wires the module together and starts the node connection.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.bus = events.NewBus(events.DefaultBufferSize)
	m.node = infrastructure.NewNodeAdapter(deps.Session, deps.BotUserID, infrastructure.NodeConfig{
		Name:     m.config.NodeName,
		Address:  m.config.NodeAddress,
		Password: m.config.NodePassword,
		Secure:   m.config.NodeSecure,
	}, m.bus)

	store := infrastructure.NewMemorySessionStore()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	notifier := infrastructure.NewDiscordNotifier(deps.Session)
	logger := slog.Default()

	var history ports.HistoryStore
	if m.config.HistoryPath != "" {
		historyStore, err := infrastructure.NewSQLiteHistoryStore(m.config.HistoryPath)
		if err != nil {
			return err
		}
		m.history = historyStore
		history = historyStore
	}

	resolver := usecases.NewResolver(m.node, logger)
	player := usecases.NewPlayerService(usecases.PlayerServiceParams{
		Store:          store,
		Node:           m.node,
		Status:         m.node,
		Voice:          m.node,
		VoiceState:     voiceState,
		Resolver:       resolver,
		History:        history,
		Logger:         logger,
		StopKeepsQueue: m.config.StopKeepsQueue,
	})
	suggester := usecases.NewSuggester([]ports.SuggestionProvider{
		infrastructure.NewYouTubeSuggestionProvider(),
		infrastructure.NewMusicSuggestionProvider(),
	}, logger)

	m.dispatcher = events.NewDispatcher(store, m.node, notifier, history, m.bus)
	m.dispatcher.Start(m.ctx)

	m.handlers = presentation.NewHandlers(player)
	m.autocomplete = presentation.NewAutocompleteHandler(suggester)
	m.presence = presentation.NewPresenceMonitor(deps.BotUserID, store, voiceState, player, notifier)

	// Connect in the background so a slow node does not block startup;
	// Play reports the node unavailable until it succeeds.
	go func() {
		if err := m.node.Connect(m.ctx); err != nil {
			slog.Error("initial streaming node connection failed", "error", err)
		}
	}()

	slog.Info("music module initialized", "node_address", m.config.NodeAddress)

	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.dispatcher != nil {
		m.dispatcher.Stop()
	}
	if m.bus != nil {
		m.bus.Close()
	}
	if m.history != nil {
		if err := m.history.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
	return nil
}

// Gateway event plumbing.

func (m *Module) handleVoiceServerUpdate(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
	if m.node != nil {
		m.node.OnVoiceServerUpdate(event)
	}
}

func (m *Module) handleVoiceStateUpdate(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if m.node != nil {
		m.node.OnVoiceStateUpdate(event)
	}
	if m.presence != nil {
		m.presence.HandleVoiceStateUpdate(s, event)
	}
}

func (m *Module) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	if i.ApplicationCommandData().Name == "play" {
		m.autocomplete.HandlePlayQuery(s, i)
	}
}
