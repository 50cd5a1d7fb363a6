package ports

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

// ErrJoinTimeout is returned by VoiceConnection.JoinChannel when the voice
// handshake does not complete in time. The condition is transient.
var ErrJoinTimeout = errors.New("timed out joining voice channel")

// NodeState is the connection state of the streaming node client.
type NodeState int

const (
	NodeDisconnected NodeState = iota
	NodeConnecting
	NodeConnected
	NodeFailed
)

// String returns a human-readable representation of the node state.
func (s NodeState) String() string {
	switch s {
	case NodeConnecting:
		return "connecting"
	case NodeConnected:
		return "connected"
	case NodeFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// NodeStatus exposes the streaming node connection lifecycle.
type NodeStatus interface {
	// Connect establishes the node connection. Idempotent: a no-op while
	// connected, and concurrent callers share a single in-flight attempt.
	Connect(ctx context.Context) error

	// State returns the current connection state.
	State() NodeState

	// IsConnected returns true while the node connection is live.
	IsConnected() bool
}

// AudioNode defines playback operations against the streaming node.
type AudioNode interface {
	// Play starts playback of the encoded track payload on the guild's player.
	Play(ctx context.Context, guildID snowflake.ID, encoded string) error

	// Stop stops the guild's current playback.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// SetVolume applies the volume to the guild's player.
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error
}

// VoiceConnection defines voice channel connection operations.
type VoiceConnection interface {
	// JoinChannel connects the bot to the voice channel, moving it if it is
	// already connected elsewhere in the guild.
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error

	// LeaveChannel disconnects the bot from the guild's voice channel.
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}
