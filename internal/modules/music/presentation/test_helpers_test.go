package presentation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/application/usecases"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[snowflake.ID]*domain.Session)}
}

func (m *mockSessionStore) Get(guildID snowflake.ID) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[guildID]
}

func (m *mockSessionStore) GetOrCreate(guildID snowflake.ID) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[guildID]; ok {
		return session
	}
	session := domain.NewSession(guildID)
	m.sessions[guildID] = session
	return session
}

type mockAudioNode struct{}

func (m *mockAudioNode) Play(_ context.Context, _ snowflake.ID, _ string) error { return nil }

func (m *mockAudioNode) Stop(_ context.Context, _ snowflake.ID) error { return nil }

func (m *mockAudioNode) SetVolume(_ context.Context, _ snowflake.ID, _ int) error { return nil }

type mockNodeStatus struct {
	connected bool
}

func (m *mockNodeStatus) Connect(_ context.Context) error { return nil }

func (m *mockNodeStatus) State() ports.NodeState {
	if m.connected {
		return ports.NodeConnected
	}
	return ports.NodeDisconnected
}

func (m *mockNodeStatus) IsConnected() bool { return m.connected }

type mockVoiceConnection struct {
	joinErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, _ snowflake.ID) error {
	return m.joinErr
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error { return nil }

type mockVoiceState struct {
	userChannels map[snowflake.ID]snowflake.ID
	occupants    map[snowflake.ID]int
	countErr     error
}

func newMockVoiceState() *mockVoiceState {
	return &mockVoiceState{
		userChannels: make(map[snowflake.ID]snowflake.ID),
		occupants:    make(map[snowflake.ID]int),
	}
}

func (m *mockVoiceState) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	return m.userChannels[userID], nil
}

func (m *mockVoiceState) CountNonBotOccupants(_, channelID snowflake.ID) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.occupants[channelID], nil
}

type mockSearcher struct {
	results map[string]*ports.LoadResult
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{results: make(map[string]*ports.LoadResult)}
}

func (m *mockSearcher) Search(_ context.Context, query string) (*ports.LoadResult, error) {
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

type mockNotifier struct {
	mu         sync.Mutex
	departures []snowflake.ID
}

func (m *mockNotifier) SendNowPlaying(_ snowflake.ID, _ *domain.Track) error { return nil }

func (m *mockNotifier) SendQueueFinished(_ snowflake.ID) error { return nil }

func (m *mockNotifier) SendTrackError(_ snowflake.ID, _, _ string) error { return nil }

func (m *mockNotifier) SendWarning(_ snowflake.ID, _ string) error { return nil }

func (m *mockNotifier) SendDeparture(channelID snowflake.ID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.departures = append(m.departures, channelID)
	return nil
}

func (m *mockNotifier) departureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.departures)
}

type handlerFixture struct {
	handlers   *Handlers
	store      *mockSessionStore
	status     *mockNodeStatus
	voice      *mockVoiceConnection
	voiceState *mockVoiceState
	searcher   *mockSearcher
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		store:      newMockSessionStore(),
		status:     &mockNodeStatus{connected: true},
		voice:      &mockVoiceConnection{},
		voiceState: newMockVoiceState(),
		searcher:   newMockSearcher(),
	}
	player := usecases.NewPlayerService(usecases.PlayerServiceParams{
		Store:          f.store,
		Node:           &mockAudioNode{},
		Status:         f.status,
		Voice:          f.voice,
		VoiceState:     f.voiceState,
		Resolver:       usecases.NewResolver(f.searcher, discardLogger()),
		Logger:         discardLogger(),
		StopKeepsQueue: true,
	})
	f.handlers = NewHandlers(player)
	return f
}

func commandInteraction(guildID, userID, channelID string, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   guildID,
			ChannelID: channelID,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Options: options,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Type:  discordgo.ApplicationCommandOptionString,
		Name:  name,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Type: discordgo.ApplicationCommandOptionInteger,
		Name: name,
		// discordgo decodes integer options from JSON as float64.
		Value: float64(value),
	}
}
