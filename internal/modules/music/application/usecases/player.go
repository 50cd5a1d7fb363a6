package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// PlayerService coordinates voice connections, track resolution, and
// playback state for all guilds.
type PlayerService struct {
	store      domain.SessionStore
	node       ports.AudioNode
	status     ports.NodeStatus
	voice      ports.VoiceConnection
	voiceState ports.VoiceStateProvider
	resolver   *Resolver
	history    ports.HistoryStore // optional
	logger     *slog.Logger

	// stopKeepsQueue controls whether a stop preserves the queued tracks
	// for a later play.
	stopKeepsQueue bool
}

type PlayerServiceParams struct {
	Store          domain.SessionStore
	Node           ports.AudioNode
	Status         ports.NodeStatus
	Voice          ports.VoiceConnection
	VoiceState     ports.VoiceStateProvider
	Resolver       *Resolver
	History        ports.HistoryStore
	Logger         *slog.Logger
	StopKeepsQueue bool
}

func NewPlayerService(params PlayerServiceParams) *PlayerService {
	return &PlayerService{
		store:          params.Store,
		node:           params.Node,
		status:         params.Status,
		voice:          params.Voice,
		voiceState:     params.VoiceState,
		resolver:       params.Resolver,
		history:        params.History,
		logger:         params.Logger,
		stopKeepsQueue: params.StopKeepsQueue,
	}
}

type PlayInput struct {
	GuildID   snowflake.ID
	UserID    snowflake.ID
	ChannelID snowflake.ID // text channel the request came from
	Query     string
}

type PlayOutput struct {
	Track *domain.Track

	// Queued is true when the track was appended behind a current track
	// instead of starting immediately.
	Queued bool

	// Position is the 1-based queue position when Queued is true.
	Position int
}

// Play resolves the query and either starts playback or appends to the
// guild's queue when a track is already playing.
func (p *PlayerService) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	if !p.status.IsConnected() {
		return nil, ErrNodeUnavailable
	}

	session := p.store.GetOrCreate(input.GuildID)

	if err := p.ensureVoice(ctx, session, input.GuildID, input.UserID); err != nil {
		return nil, err
	}
	session.SetNotificationChannelID(input.ChannelID)

	track, err := p.resolver.Resolve(ctx, input.Query, input.UserID)
	if err != nil {
		return nil, err
	}

	started := session.StartOrEnqueue(track)
	if !started {
		return &PlayOutput{Track: track, Queued: true, Position: session.Queue().Len()}, nil
	}

	if err := p.node.SetVolume(ctx, input.GuildID, session.Volume()); err != nil {
		p.logger.Warn("failed to apply session volume", "guild_id", input.GuildID, "error", err)
	}
	if err := p.node.Play(ctx, input.GuildID, track.Encoded); err != nil {
		session.ClearCurrent()
		return nil, fmt.Errorf("starting playback: %w", err)
	}
	p.recordHistory(ctx, input.GuildID, track)

	return &PlayOutput{Track: track}, nil
}

// ensureVoice connects the bot to the user's voice channel. It is a no-op
// when the bot is already there, and moves the bot when it is connected to
// a different channel in the guild.
func (p *PlayerService) ensureVoice(ctx context.Context, session *domain.Session, guildID, userID snowflake.ID) error {
	channelID, err := p.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return fmt.Errorf("looking up voice state: %w", err)
	}
	if channelID == 0 {
		return ErrNoVoiceChannel
	}
	if session.VoiceChannelID() == channelID {
		return nil
	}

	if err := p.voice.JoinChannel(ctx, guildID, channelID); err != nil {
		return fmt.Errorf("joining voice channel: %w", err)
	}
	session.SetVoiceChannelID(channelID)
	return nil
}

// SetVolume applies the volume to both the live player and the session so
// it survives track transitions. Values outside the accepted range are
// rejected without touching session state.
func (p *PlayerService) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	if volume < domain.MinVolume || volume > domain.MaxVolume {
		return fmt.Errorf("%w: %d is not within %d-%d", ErrInvalidVolume, volume, domain.MinVolume, domain.MaxVolume)
	}

	session := p.store.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}

	if err := p.node.SetVolume(ctx, guildID, volume); err != nil {
		return fmt.Errorf("setting player volume: %w", err)
	}
	session.SetVolume(volume)
	return nil
}

// Stop halts playback and disconnects from the voice channel. The queue is
// preserved or discarded according to the stop policy.
func (p *PlayerService) Stop(ctx context.Context, guildID snowflake.ID) error {
	session := p.store.Get(guildID)
	if session == nil || session.VoiceChannelID() == 0 {
		return ErrNotConnected
	}

	// Clear current before stopping so the resulting track-end event does
	// not advance the queue.
	session.Teardown(p.stopKeepsQueue)

	if err := p.node.Stop(ctx, guildID); err != nil {
		p.logger.Warn("failed to stop player", "guild_id", guildID, "error", err)
	}
	if err := p.voice.LeaveChannel(ctx, guildID); err != nil {
		return fmt.Errorf("leaving voice channel: %w", err)
	}
	return nil
}

// Skip stops the current track. Queue advancement happens through the
// resulting track-end event, which also covers an empty queue.
func (p *PlayerService) Skip(ctx context.Context, guildID snowflake.ID) (*domain.Track, error) {
	session := p.store.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}
	skipped := session.Current()
	if skipped == nil {
		return nil, ErrNothingPlaying
	}

	if err := p.node.Stop(ctx, guildID); err != nil {
		return nil, fmt.Errorf("stopping current track: %w", err)
	}
	return skipped, nil
}

// ToggleLoop flips single-track looping and reports the new state.
func (p *PlayerService) ToggleLoop(guildID snowflake.ID) (bool, error) {
	session := p.store.Get(guildID)
	if session == nil {
		return false, ErrNotConnected
	}
	return session.ToggleLoop(), nil
}

type QueueView struct {
	Current *domain.Track
	Queue   []*domain.Track
	Loop    bool
	Volume  int
}

// Queue returns a point-in-time snapshot of the guild's playback state.
func (p *PlayerService) Queue(guildID snowflake.ID) (*QueueView, error) {
	session := p.store.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}
	return &QueueView{
		Current: session.Current(),
		Queue:   session.Queue().List(),
		Loop:    session.Loop(),
		Volume:  session.Volume(),
	}, nil
}

// Disconnect tears down the guild's playback without a user command, e.g.
// when the voice channel empties. The queue is always discarded.
func (p *PlayerService) Disconnect(ctx context.Context, guildID snowflake.ID) error {
	session := p.store.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}

	session.Teardown(false)

	if err := p.node.Stop(ctx, guildID); err != nil {
		p.logger.Warn("failed to stop player", "guild_id", guildID, "error", err)
	}
	if err := p.voice.LeaveChannel(ctx, guildID); err != nil {
		return fmt.Errorf("leaving voice channel: %w", err)
	}
	return nil
}

// Recent returns the guild's playback history, newest first.
func (p *PlayerService) Recent(ctx context.Context, guildID snowflake.ID, limit int) ([]ports.HistoryEntry, error) {
	if p.history == nil {
		return nil, nil
	}
	entries, err := p.history.Recent(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading playback history: %w", err)
	}
	return entries, nil
}

func (p *PlayerService) recordHistory(ctx context.Context, guildID snowflake.ID, track *domain.Track) {
	if p.history == nil || track.StartedAt == nil {
		return
	}
	entry := ports.HistoryEntry{
		GuildID:     guildID,
		Title:       track.Title,
		Author:      track.Author,
		URI:         track.URI,
		RequestedBy: track.RequestedBy,
		StartedAt:   *track.StartedAt,
	}
	if err := p.history.Record(ctx, entry); err != nil {
		p.logger.Warn("failed to record playback history", "guild_id", guildID, "error", err)
	}
}
