package usecases

import (
	"errors"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

var (
	// ErrNoVoiceChannel is returned when the requesting user is not in a
	// voice channel.
	ErrNoVoiceChannel = errors.New("user is not in a voice channel")

	// ErrEmptyQuery is returned when a play request carries an empty or
	// whitespace-only query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrNoResults is returned when no provider yields a playable track
	// for the query.
	ErrNoResults = errors.New("no playable tracks found")

	// ErrInvalidVolume is returned when a requested volume is outside the
	// accepted range.
	ErrInvalidVolume = errors.New("volume out of range")

	// ErrNodeUnavailable is returned when the audio node is not connected
	// and a playback operation cannot proceed.
	ErrNodeUnavailable = errors.New("audio node is unavailable")

	// ErrNotConnected is returned when an operation requires an active
	// voice connection but none exists for the guild.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrNothingPlaying is returned when an operation requires a current
	// track but the session is idle.
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrJoinTimeout is returned when the voice handshake does not
	// complete in time. Aliases the port sentinel so callers match it
	// regardless of which layer they import.
	ErrJoinTimeout = ports.ErrJoinTimeout
)
