package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider exposes Discord voice state information.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the voice channel the user currently
	// occupies, or zero if the user is not in a voice channel.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)

	// CountNonBotOccupants returns how many non-bot members occupy the
	// voice channel.
	CountNonBotOccupants(guildID, channelID snowflake.ID) (int, error)
}
