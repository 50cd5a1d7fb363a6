package domain

// TrackEndReason represents why a track stopped playing.
type TrackEndReason string

const (
	// TrackEndFinished means the track played to its natural end.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the streaming node could not load the track.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means playback was stopped explicitly.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means another track took over the player.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the node cleaned the player up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// IsNaturalCompletion reports whether the track ran to its end on its own.
// Only natural completions produce "now playing" / "queue finished"
// announcements; stop- and skip-triggered ends stay silent to avoid
// duplicate messaging.
func (r TrackEndReason) IsNaturalCompletion() bool {
	return r == TrackEndFinished
}

// ShouldAdvanceQueue reports whether this end reason should advance playback
// to the next queued track. A replaced track already has a successor playing,
// so advancing again would double-start.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r != TrackEndReplaced
}
