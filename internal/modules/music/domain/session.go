package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Volume bounds for a session. Values outside the range are rejected before
// they reach the session; the setter clamps regardless.
const (
	MinVolume     = 0
	MaxVolume     = 150
	DefaultVolume = 100
)

// Session is the per-guild playback state. One session exists per guild; it is
// created lazily on the first voice interaction and the entry is never removed,
// only the transient connection state is cleared on teardown.
type Session struct {
	guildID snowflake.ID

	mu                    sync.Mutex
	current               *Track
	queue                 *Queue
	loop                  bool
	volume                int
	notificationChannelID snowflake.ID
	voiceChannelID        snowflake.ID // zero when disconnected
}

// NewSession creates a Session with default state (volume 100, empty queue).
func NewSession(guildID snowflake.ID) *Session {
	return &Session{
		guildID: guildID,
		queue:   NewQueue(),
		volume:  DefaultVolume,
	}
}

// GuildID returns the owning guild. Immutable after creation.
func (s *Session) GuildID() snowflake.ID {
	return s.guildID
}

// Current returns the currently playing track, or nil when idle.
func (s *Session) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Queue returns the session's play queue.
func (s *Session) Queue() *Queue {
	return s.queue
}

// StartOrEnqueue atomically decides between starting playback and queueing.
// If no track is playing, the given track becomes current (stamped with its
// start time) and true is returned; otherwise the track is appended to the
// queue and false is returned. Two near-simultaneous play requests therefore
// cannot both start playback.
func (s *Session) StartOrEnqueue(track *Track) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		track.MarkStarted()
		s.current = track
		return true
	}

	s.queue.Add(track)
	return false
}

// AdvanceNext clears the current track and promotes the queue head, if any.
// The promoted track is stamped with its start time and returned; nil means
// the queue is exhausted.
func (s *Session) AdvanceNext() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	next := s.queue.Next()
	if next == nil {
		return nil
	}

	next.MarkStarted()
	s.current = next
	return next
}

// ClearCurrent drops the current track without touching the queue.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Loop returns whether loop playback is enabled.
func (s *Session) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// ToggleLoop flips loop playback and returns the new value.
func (s *Session) ToggleLoop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = !s.loop
	return s.loop
}

// Volume returns the session volume.
func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume stores the volume, clamped to [MinVolume, MaxVolume].
func (s *Session) SetVolume(value int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = min(max(value, MinVolume), MaxVolume)
}

// NotificationChannelID returns the text channel for playback announcements,
// or zero if none has been set.
func (s *Session) NotificationChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationChannelID
}

// SetNotificationChannelID records the text channel that initiated playback.
// It persists until replaced by a later command.
func (s *Session) SetNotificationChannelID(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationChannelID = channelID
}

// VoiceChannelID returns the connected voice channel, or zero when disconnected.
func (s *Session) VoiceChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID
}

// SetVoiceChannelID records the live voice connection's channel.
func (s *Session) SetVoiceChannelID(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceChannelID = channelID
}

// IsConnected returns true while a voice connection is live.
func (s *Session) IsConnected() bool {
	return s.VoiceChannelID() != 0
}

// Teardown clears the transient connection state: current track and voice
// channel. The queue is discarded only when keepQueue is false; the session
// entry itself always survives.
func (s *Session) Teardown(keepQueue bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.voiceChannelID = 0
	if !keepQueue {
		s.queue.Clear()
	}
}

// SessionStore is the process-wide registry of playback sessions keyed by
// guild. Implementations must not block or perform I/O.
type SessionStore interface {
	// GetOrCreate returns the session for the guild, inserting a fresh one
	// with defaults if none exists.
	GetOrCreate(guildID snowflake.ID) *Session

	// Get returns the session for the guild, or nil if none was ever created.
	Get(guildID snowflake.ID) *Session
}
