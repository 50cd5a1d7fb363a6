package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/events"
	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

const (
	// voiceConnectionTimeout bounds the wait for the Discord voice handshake.
	voiceConnectionTimeout = 10 * time.Second

	// connectBaseDelay is the first reconnect backoff step.
	connectBaseDelay = 1 * time.Second

	// connectMaxDelay caps the reconnect backoff.
	connectMaxDelay = 30 * time.Second

	// connectMaxAttempts is how many times one Connect call retries before
	// the adapter trips to the failed state.
	connectMaxAttempts = 5

	// failedCooldown is how long the failed state rejects new connection
	// attempts before allowing another try.
	failedCooldown = 1 * time.Minute
)

// voiceHandshake tracks one in-flight voice join. Discord delivers the
// state and server updates in either order; the join completes once both
// have arrived.
type voiceHandshake struct {
	mu sync.Mutex

	hasState  bool
	sessionID string
	channelID *snowflake.ID

	hasServer bool
	token     string
	endpoint  string

	ready chan struct{}
}

func newVoiceHandshake() *voiceHandshake {
	return &voiceHandshake{ready: make(chan struct{})}
}

func (h *voiceHandshake) onState(channelID *snowflake.ID, sessionID string) (complete bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hasState = true
	h.channelID = channelID
	h.sessionID = sessionID
	return h.completeLocked()
}

func (h *voiceHandshake) onServer(token, endpoint string) (complete bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hasServer = true
	h.token = token
	h.endpoint = endpoint
	return h.completeLocked()
}

func (h *voiceHandshake) completeLocked() bool {
	if !h.hasState || !h.hasServer {
		return false
	}
	select {
	case <-h.ready:
	default:
		close(h.ready)
	}
	return true
}

func (h *voiceHandshake) data() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.channelID, h.sessionID, h.token, h.endpoint
}

// NodeConfig holds the streaming node's connection parameters.
type NodeConfig struct {
	Name     string
	Address  string
	Password string
	Secure   bool
}

// NodeAdapter wraps a disgolink client behind the playback ports. It owns
// the node connection lifecycle: a single in-flight connection attempt with
// exponential backoff, and a cooldown after repeated failures so callers
// fail fast instead of piling onto a dead node.
type NodeAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID
	config  NodeConfig
	bus     *events.Bus

	stateMu    sync.Mutex
	state      ports.NodeState
	connecting chan struct{} // non-nil while a connect attempt is in flight
	failedAt   time.Time

	handshakeMu sync.Mutex
	handshakes  map[snowflake.ID]*voiceHandshake
}

// NewNodeAdapter creates a NodeAdapter. The node connection is established
// separately through Connect so a slow or down node does not block startup.
func NewNodeAdapter(session *discordgo.Session, botID snowflake.ID, config NodeConfig, bus *events.Bus) *NodeAdapter {
	adapter := &NodeAdapter{
		session:    session,
		botID:      botID,
		config:     config,
		bus:        bus,
		state:      ports.NodeDisconnected,
		handshakes: make(map[snowflake.ID]*voiceHandshake),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	return adapter
}

// Connect establishes the node connection with bounded exponential backoff.
// Concurrent callers share one attempt; while the failed cooldown is active
// new attempts are rejected immediately.
func (a *NodeAdapter) Connect(ctx context.Context) error {
	a.stateMu.Lock()
	switch a.state {
	case ports.NodeConnected:
		a.stateMu.Unlock()
		return nil
	case ports.NodeFailed:
		if time.Since(a.failedAt) < failedCooldown {
			a.stateMu.Unlock()
			return fmt.Errorf("node connection failed recently, retry after cooldown: %w", errNodeFailed)
		}
	case ports.NodeConnecting:
		// Wait for the in-flight attempt instead of starting another.
		waitCh := a.connecting
		a.stateMu.Unlock()
		select {
		case <-waitCh:
		case <-ctx.Done():
			return ctx.Err()
		}
		if a.IsConnected() {
			return nil
		}
		return errNodeFailed
	}

	waitCh := make(chan struct{})
	a.state = ports.NodeConnecting
	a.connecting = waitCh
	a.stateMu.Unlock()

	err := a.connectWithBackoff(ctx)

	a.stateMu.Lock()
	if err != nil {
		a.state = ports.NodeFailed
		a.failedAt = time.Now()
	} else {
		a.state = ports.NodeConnected
	}
	a.connecting = nil
	close(waitCh)
	a.stateMu.Unlock()

	return err
}

var errNodeFailed = errors.New("node connection failed")

func (a *NodeAdapter) connectWithBackoff(ctx context.Context) error {
	delay := connectBaseDelay
	var lastErr error

	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		node, err := a.link.AddNode(ctx, disgolink.NodeConfig{
			Name:     a.config.Name,
			Address:  a.config.Address,
			Password: a.config.Password,
			Secure:   a.config.Secure,
		})
		if err == nil {
			slog.Info("connected to streaming node",
				"node", node.Config().Name, "address", a.config.Address)
			return nil
		}
		lastErr = err
		slog.Warn("streaming node connection attempt failed",
			"attempt", attempt, "address", a.config.Address, "error", err)

		if attempt == connectMaxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, connectMaxDelay)
	}

	return fmt.Errorf("connecting to streaming node after %d attempts: %w", connectMaxAttempts, lastErr)
}

// State returns the current connection state.
func (a *NodeAdapter) State() ports.NodeState {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

// IsConnected reports whether playback operations can proceed.
func (a *NodeAdapter) IsConnected() bool {
	return a.State() == ports.NodeConnected
}

// JoinChannel connects the bot to a voice channel and waits for the
// handshake to complete before returning.
func (a *NodeAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	handshake := newVoiceHandshake()

	a.handshakeMu.Lock()
	a.handshakes[guildID] = handshake
	a.handshakeMu.Unlock()
	defer func() {
		a.handshakeMu.Lock()
		delete(a.handshakes, guildID)
		a.handshakeMu.Unlock()
	}()

	if err := a.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true); err != nil {
		return fmt.Errorf("requesting voice join: %w", err)
	}

	select {
	case <-handshake.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for voice handshake: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return fmt.Errorf("waiting for voice handshake: %w", ports.ErrJoinTimeout)
	}
}

// LeaveChannel destroys the guild's player and disconnects from voice.
func (a *NodeAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	if player := a.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	if err := a.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("requesting voice leave: %w", err)
	}
	return nil
}

// Play starts playback of the encoded track on the guild's player.
func (a *NodeAdapter) Play(ctx context.Context, guildID snowflake.ID, encoded string) error {
	player := a.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithEncodedTrack(encoded)); err != nil {
		return fmt.Errorf("updating player track: %w", err)
	}
	return nil
}

// Stop stops the guild's playback without destroying the player.
func (a *NodeAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := a.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("clearing player track: %w", err)
	}
	return nil
}

// SetVolume applies the volume to the guild's player.
func (a *NodeAdapter) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	player := a.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithVolume(volume)); err != nil {
		return fmt.Errorf("updating player volume: %w", err)
	}
	return nil
}

// Search resolves a node query into a candidate set.
func (a *NodeAdapter) Search(ctx context.Context, query string) (*ports.LoadResult, error) {
	node := a.link.BestNode()
	if node == nil {
		return nil, errors.New("no available streaming node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading tracks: %w", err)
	}
	return convertLoadResult(result), nil
}

func convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.LoadResult{
			Type:   ports.LoadTypeTrack,
			Tracks: []*ports.TrackInfo{convertTrack(data)},
		}

	case lavalink.Playlist:
		tracks := make([]*ports.TrackInfo, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{Type: ports.LoadTypePlaylist, Tracks: tracks}

	case lavalink.Search:
		tracks := make([]*ports.TrackInfo, len(data))
		for i, track := range data {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{Type: ports.LoadTypeSearch, Tracks: tracks}

	case lavalink.Exception:
		return &ports.LoadResult{Type: ports.LoadTypeError}

	default:
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}
	}
}

func convertTrack(track lavalink.Track) *ports.TrackInfo {
	info := track.Info
	return &ports.TrackInfo{
		Encoded:      track.Encoded,
		Title:        info.Title,
		Author:       info.Author,
		Duration:     time.Duration(info.Length) * time.Millisecond,
		URI:          derefString(info.URI),
		ThumbnailURL: derefString(info.ArtworkURL),
		SourceName:   info.SourceName,
		IsStream:     info.IsStream,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OnVoiceServerUpdate forwards Discord voice server updates to the node.
// Must be registered as a discordgo event handler.
func (a *NodeAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	handshake := a.handshake(guildID)
	if handshake == nil {
		// An unsolicited server update, e.g. a voice region change.
		a.link.OnVoiceServerUpdate(context.Background(), guildID, event.Token, event.Endpoint)
		return
	}
	if handshake.onServer(event.Token, event.Endpoint) {
		a.forwardHandshake(guildID, handshake)
	}
}

// OnVoiceStateUpdate forwards the bot's own voice state updates to the node.
// Must be registered as a discordgo event handler.
func (a *NodeAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != a.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	// A nil channel is a disconnect; forward it straight away.
	if channelID == nil {
		a.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		return
	}

	handshake := a.handshake(guildID)
	if handshake == nil {
		a.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, event.SessionID)
		return
	}
	if handshake.onState(channelID, event.SessionID) {
		a.forwardHandshake(guildID, handshake)
	}
}

func (a *NodeAdapter) handshake(guildID snowflake.ID) *voiceHandshake {
	a.handshakeMu.Lock()
	defer a.handshakeMu.Unlock()
	return a.handshakes[guildID]
}

// forwardHandshake delivers a completed handshake to the node, state before
// server, which is the order the node requires.
func (a *NodeAdapter) forwardHandshake(guildID snowflake.ID, handshake *voiceHandshake) {
	channelID, sessionID, token, endpoint := handshake.data()

	slog.Debug("voice handshake complete", "guild", guildID, "channel", channelID)

	a.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	a.link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

func (a *NodeAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (a *NodeAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	a.bus.PublishTrackEnded(events.TrackEndedEvent{
		GuildID: player.GuildID(),
		Reason:  convertEndReason(event.Reason),
	})
}

func (a *NodeAdapter) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	a.bus.PublishTrackExcepted(events.TrackExceptedEvent{
		GuildID: player.GuildID(),
		Title:   event.Track.Info.Title,
		Message: event.Exception.Message,
	})
}

func (a *NodeAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	a.bus.PublishTrackStuck(events.TrackStuckEvent{
		GuildID:     player.GuildID(),
		Title:       event.Track.Info.Title,
		ThresholdMs: int64(event.Threshold),
	})
}

func convertEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonStopped:
		return domain.TrackEndStopped
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}

var (
	_ ports.AudioNode       = (*NodeAdapter)(nil)
	_ ports.NodeStatus      = (*NodeAdapter)(nil)
	_ ports.VoiceConnection = (*NodeAdapter)(nil)
	_ ports.TrackSearcher   = (*NodeAdapter)(nil)
)
