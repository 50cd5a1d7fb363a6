package events

import (
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/domain"
)

// DefaultBufferSize is the default buffer size for event channels.
const DefaultBufferSize = 100

// TrackEndedEvent is raised by the streaming node when a track stops.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Reason  domain.TrackEndReason
}

// TrackExceptedEvent is raised when the node hits an error playing a track.
type TrackExceptedEvent struct {
	GuildID snowflake.ID
	Title   string
	Message string
}

// TrackStuckEvent is raised when a track stops making playback progress.
type TrackStuckEvent struct {
	GuildID     snowflake.ID
	Title       string
	ThresholdMs int64
}

// Bus carries the streaming node's lifecycle callbacks to the dispatcher over
// buffered channels. Publishing never blocks: when a buffer is full the event
// is dropped with a warning.
type Bus struct {
	trackEnded    chan TrackEndedEvent
	trackExcepted chan TrackExceptedEvent
	trackStuck    chan TrackStuckEvent

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a Bus with the given channel buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Bus{
		trackEnded:    make(chan TrackEndedEvent, bufferSize),
		trackExcepted: make(chan TrackExceptedEvent, bufferSize),
		trackStuck:    make(chan TrackStuckEvent, bufferSize),
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
func (b *Bus) PublishTrackEnded(event TrackEndedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnded")
		return
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "guild", event.GuildID,
			"reason", event.Reason)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnded")
	}
}

// PublishTrackExcepted publishes a TrackExceptedEvent.
func (b *Bus) PublishTrackExcepted(event TrackExceptedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackExcepted")
		return
	}

	select {
	case b.trackExcepted <- event:
		slog.Debug("published event", "type", "TrackExcepted", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackExcepted")
	}
}

// PublishTrackStuck publishes a TrackStuckEvent.
func (b *Bus) PublishTrackStuck(event TrackStuckEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackStuck")
		return
	}

	select {
	case b.trackStuck <- event:
		slog.Debug("published event", "type", "TrackStuck", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackStuck")
	}
}

// TrackEnded returns the channel for TrackEndedEvent.
func (b *Bus) TrackEnded() <-chan TrackEndedEvent {
	return b.trackEnded
}

// TrackExcepted returns the channel for TrackExceptedEvent.
func (b *Bus) TrackExcepted() <-chan TrackExceptedEvent {
	return b.trackExcepted
}

// TrackStuck returns the channel for TrackStuckEvent.
func (b *Bus) TrackStuck() <-chan TrackStuckEvent {
	return b.trackStuck
}

// Close closes all event channels. After Close, publishing is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.trackEnded)
	close(b.trackExcepted)
	close(b.trackStuck)

	slog.Debug("event bus closed")
}
