package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/domain"
)

// Notifier sends playback announcements to text channels. All notifications
// are single embeds; failures are logged by implementations, never fatal.
type Notifier interface {
	// SendNowPlaying announces that a track started playing.
	SendNowPlaying(channelID snowflake.ID, track *domain.Track) error

	// SendQueueFinished announces that the queue ran out.
	SendQueueFinished(channelID snowflake.ID) error

	// SendTrackError reports a failed track with the error detail.
	SendTrackError(channelID snowflake.ID, title, detail string) error

	// SendWarning reports a soft failure, e.g. a stuck track.
	SendWarning(channelID snowflake.ID, message string) error

	// SendDeparture announces that the bot left the voice channel.
	SendDeparture(channelID snowflake.ID, message string) error
}
