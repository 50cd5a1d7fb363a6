package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// Dispatcher consumes streaming node callbacks from the Bus and drives queue
// advancement and user notification. One dispatcher serves every guild; the
// per-session mutex keeps each guild's state transitions consistent.
type Dispatcher struct {
	store    domain.SessionStore
	node     ports.AudioNode
	notifier ports.Notifier
	history  ports.HistoryStore // optional
	bus      *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	store domain.SessionStore,
	node ports.AudioNode,
	notifier ports.Notifier,
	history ports.HistoryStore,
	bus *Bus,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		node:     node,
		notifier: notifier,
		history:  history,
		bus:      bus,
		done:     make(chan struct{}),
	}
}

// Start begins consuming events in background goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(3)

	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.done:
				return
			case event, ok := <-d.bus.TrackEnded():
				if !ok {
					return
				}
				d.safely(func() { d.handleTrackEnded(ctx, event) })
			}
		}
	}()

	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.done:
				return
			case event, ok := <-d.bus.TrackExcepted():
				if !ok {
					return
				}
				d.safely(func() { d.handleTrackExcepted(event) })
			}
		}
	}()

	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.done:
				return
			case event, ok := <-d.bus.TrackStuck():
				if !ok {
					return
				}
				d.safely(func() { d.handleTrackStuck(event) })
			}
		}
	}()

	slog.Debug("playback event dispatcher started")
}

// Stop stops the dispatcher and waits for its goroutines to finish.
func (d *Dispatcher) Stop() {
	close(d.done)
	d.wg.Wait()
	slog.Debug("playback event dispatcher stopped")
}

// safely runs a handler so a panic in one event cannot kill the consumer loop.
func (d *Dispatcher) safely(handle func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in playback event handler", "panic", r)
		}
	}()
	handle()
}

// handleTrackEnded advances the queue. "Now playing" and "queue finished"
// announcements go out only on natural completion; stop- and skip-triggered
// ends advance silently so a user-issued skip does not double-announce.
func (d *Dispatcher) handleTrackEnded(ctx context.Context, event TrackEndedEvent) {
	session := d.store.Get(event.GuildID)
	if session == nil {
		slog.Debug("track ended for unknown session", "guild", event.GuildID)
		return
	}

	if !event.Reason.ShouldAdvanceQueue() {
		slog.Debug("track ended without queue advancement",
			"guild", event.GuildID, "reason", event.Reason)
		return
	}

	// A teardown (stop, disconnect, presence departure) drops the voice channel
	// before the node emits its final track-end. Advancing here would resume
	// playback into a channel the session already left.
	if !session.IsConnected() {
		slog.Debug("track ended after teardown", "guild", event.GuildID)
		return
	}

	// Loop replays the same track on natural completion, silently.
	if session.Loop() && event.Reason.IsNaturalCompletion() {
		if current := session.Current(); current != nil {
			current.MarkStarted()
			if err := d.node.Play(ctx, event.GuildID, current.Encoded); err != nil {
				slog.Error("failed to replay looped track",
					"guild", event.GuildID, "error", err)
				d.reportTrackError(session, current.Title, err.Error())
				session.ClearCurrent()
			}
			return
		}
	}

	next := session.AdvanceNext()
	announce := event.Reason.IsNaturalCompletion()
	channelID := session.NotificationChannelID()

	if next == nil {
		if announce && channelID != 0 {
			if err := d.notifier.SendQueueFinished(channelID); err != nil {
				slog.Error("failed to send queue finished notice",
					"guild", event.GuildID, "error", err)
			}
		}
		return
	}

	if err := d.node.Play(ctx, event.GuildID, next.Encoded); err != nil {
		slog.Error("failed to start next track",
			"guild", event.GuildID, "track", next.Title, "error", err)
		d.reportTrackError(session, next.Title, err.Error())
		session.ClearCurrent()
		return
	}

	d.recordHistory(ctx, session, next)

	if announce && channelID != 0 {
		if err := d.notifier.SendNowPlaying(channelID, next); err != nil {
			slog.Error("failed to send now playing notice",
				"guild", event.GuildID, "error", err)
		}
	}
}

// handleTrackExcepted reports the failure without touching queue state; the
// node emits a follow-up track-end that performs the advancement.
func (d *Dispatcher) handleTrackExcepted(event TrackExceptedEvent) {
	slog.Warn("track exception",
		"guild", event.GuildID, "track", event.Title, "error", event.Message)

	session := d.store.Get(event.GuildID)
	if session == nil {
		return
	}
	d.reportTrackError(session, event.Title, event.Message)
}

// handleTrackStuck reports a soft failure; the node is expected to eventually
// produce a track-end.
func (d *Dispatcher) handleTrackStuck(event TrackStuckEvent) {
	slog.Warn("track stuck",
		"guild", event.GuildID, "track", event.Title, "threshold_ms", event.ThresholdMs)

	session := d.store.Get(event.GuildID)
	if session == nil {
		return
	}

	channelID := session.NotificationChannelID()
	if channelID == 0 {
		return
	}
	if err := d.notifier.SendWarning(channelID,
		"Playback of **"+event.Title+"** stalled, waiting for the audio service to recover.",
	); err != nil {
		slog.Error("failed to send stuck warning", "guild", event.GuildID, "error", err)
	}
}

func (d *Dispatcher) reportTrackError(session *domain.Session, title, detail string) {
	channelID := session.NotificationChannelID()
	if channelID == 0 {
		return
	}
	if err := d.notifier.SendTrackError(channelID, title, detail); err != nil {
		slog.Error("failed to send track error notice",
			"guild", session.GuildID(), "error", err)
	}
}

func (d *Dispatcher) recordHistory(ctx context.Context, session *domain.Session, track *domain.Track) {
	if d.history == nil || track.StartedAt == nil {
		return
	}

	err := d.history.Record(ctx, ports.HistoryEntry{
		GuildID:     session.GuildID(),
		Title:       track.Title,
		Author:      track.Author,
		URI:         track.URI,
		RequestedBy: track.RequestedBy,
		StartedAt:   *track.StartedAt,
	})
	if err != nil {
		slog.Warn("failed to record playback history",
			"guild", session.GuildID(), "error", err)
	}
}
