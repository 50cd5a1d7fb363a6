package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
)

// VoiceStateProvider reads voice state from the discordgo state cache.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{session: session}
}

// GetUserVoiceChannel returns the voice channel the user currently occupies.
// Returns 0 if the user is not in a voice channel.
func (v *VoiceStateProvider) GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, err
			}
			return channelID, nil
		}
	}

	return 0, nil
}

// CountNonBotOccupants returns how many non-bot members occupy the voice
// channel. Members missing from the state cache are counted as humans, so a
// stale cache never makes an occupied channel look empty.
func (v *VoiceStateProvider) CountNonBotOccupants(guildID, channelID snowflake.ID) (int, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID.String() {
			continue
		}
		member, err := v.session.State.Member(guildID.String(), vs.UserID)
		if err != nil || member.User == nil || !member.User.Bot {
			count++
		}
	}

	return count, nil
}

// Ensure VoiceStateProvider implements ports.VoiceStateProvider.
var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)
