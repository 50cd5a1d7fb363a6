package usecases

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func candidate(id string) *ports.TrackInfo {
	return &ports.TrackInfo{
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Author:     "Artist",
		Duration:   3 * time.Minute,
		URI:        "https://example.com/" + id,
		SourceName: "youtube",
	}
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

// createConnectedSession seeds a session that already has a voice and
// notification channel, mirroring a guild mid-playback-setup.
func (m *mockSessionStore) createConnectedSession(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
) *domain.Session {
	session := m.GetOrCreate(guildID)
	session.SetVoiceChannelID(voiceChannelID)
	session.SetNotificationChannelID(notificationChannelID)
	return session
}

type mockAudioNode struct {
	mu sync.Mutex

	playErr   error
	stopErr   error
	volumeErr error

	played  []string
	stopped []snowflake.ID
	volumes []int
}

func (m *mockAudioNode) Play(_ context.Context, _ snowflake.ID, encoded string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, encoded)
	return nil
}

func (m *mockAudioNode) Stop(_ context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stopped = append(m.stopped, guildID)
	return nil
}

func (m *mockAudioNode) SetVolume(_ context.Context, _ snowflake.ID, volume int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volumeErr != nil {
		return m.volumeErr
	}
	m.volumes = append(m.volumes, volume)
	return nil
}

type mockNodeStatus struct {
	state ports.NodeState
}

func (m *mockNodeStatus) Connect(_ context.Context) error { return nil }

func (m *mockNodeStatus) State() ports.NodeState { return m.state }

func (m *mockNodeStatus) IsConnected() bool { return m.state == ports.NodeConnected }

type mockVoiceConnection struct {
	mu sync.Mutex

	joinErr  error
	leaveErr error

	joined []snowflake.ID
	left   []snowflake.ID
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leaveErr != nil {
		return m.leaveErr
	}
	m.left = append(m.left, guildID)
	return nil
}

type mockVoiceState struct {
	userChannels map[snowflake.ID]snowflake.ID
	occupants    map[snowflake.ID]int
	err          error
}

func newMockVoiceState() *mockVoiceState {
	return &mockVoiceState{
		userChannels: make(map[snowflake.ID]snowflake.ID),
		occupants:    make(map[snowflake.ID]int),
	}
}

func (m *mockVoiceState) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.userChannels[userID], nil
}

func (m *mockVoiceState) CountNonBotOccupants(_, channelID snowflake.ID) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.occupants[channelID], nil
}

// mockSearcher replays scripted results keyed by node query, so tests can
// model per-provider behavior in a fallback chain.
type mockSearcher struct {
	mu      sync.Mutex
	results map[string]*ports.LoadResult
	errs    map[string]error
	queries []string
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{
		results: make(map[string]*ports.LoadResult),
		errs:    make(map[string]error),
	}
}

func (m *mockSearcher) Search(_ context.Context, query string) (*ports.LoadResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

type mockHistoryStore struct {
	mu        sync.Mutex
	recordErr error
	entries   []ports.HistoryEntry
}

func (m *mockHistoryStore) Record(_ context.Context, entry ports.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryStore) Recent(_ context.Context, guildID snowflake.ID, limit int) ([]ports.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.HistoryEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].GuildID == guildID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *mockHistoryStore) Close() error { return nil }

type mockSuggestionProvider struct {
	name        string
	suggestions []ports.Suggestion
	err         error
}

func (m *mockSuggestionProvider) Name() string { return m.name }

func (m *mockSuggestionProvider) Suggest(_ context.Context, _ string, limit int) ([]ports.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.suggestions) > limit {
		return m.suggestions[:limit], nil
	}
	return m.suggestions, nil
}
