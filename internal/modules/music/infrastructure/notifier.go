package infrastructure

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// Embed colors for notices without a platform color.
const (
	colorError   = 0xE74C3C
	colorWarning = 0xF1C40F
	colorNeutral = 0x95A5A6
)

// DiscordNotifier sends playback notifications as channel embeds.
type DiscordNotifier struct {
	session *discordgo.Session
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: session}
}

// SendNowPlaying sends a "Now Playing" embed colored by the track's platform.
func (n *DiscordNotifier) SendNowPlaying(channelID snowflake.ID, track *domain.Track) error {
	source := domain.ParseTrackSource(track.SourceName)

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: track.Title,
		URL:   track.URI,
		Color: source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: track.Author, Inline: true},
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
		},
	}
	if track.StartedAt != nil {
		embed.Timestamp = track.StartedAt.UTC().Format(time.RFC3339)
	}
	if track.ThumbnailURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: track.ThumbnailURL}
	}
	// Footer text does not render mention syntax, so resolve a display name.
	if track.RequestedBy != nil {
		if name := n.requesterName(channelID, *track.RequestedBy); name != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Requested by %s", name),
			}
		}
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// requesterName resolves the requester's effective display name in the
// channel's guild, trying the state cache before the REST API. Returns ""
// when the member cannot be resolved.
func (n *DiscordNotifier) requesterName(channelID, userID snowflake.ID) string {
	channel, err := n.session.State.Channel(channelID.String())
	if err != nil {
		return ""
	}

	member, err := n.session.State.Member(channel.GuildID, userID.String())
	if err != nil {
		member, err = n.session.GuildMember(channel.GuildID, userID.String())
		if err != nil {
			return ""
		}
	}
	return memberDisplayName(member)
}

// memberDisplayName picks the effective name for a guild member.
// Priority: guild nickname > global display name > username.
func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User == nil {
		return ""
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// SendQueueFinished announces that the queue ran out.
func (n *DiscordNotifier) SendQueueFinished(channelID snowflake.ID) error {
	embed := &discordgo.MessageEmbed{
		Description: "Queue finished.",
		Color:       colorNeutral,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// SendTrackError reports a track failure.
func (n *DiscordNotifier) SendTrackError(channelID snowflake.ID, title, detail string) error {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Failed to play **%s**: %s", title, detail),
		Color:       colorError,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// SendWarning reports a soft failure.
func (n *DiscordNotifier) SendWarning(channelID snowflake.ID, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       colorWarning,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// SendDeparture announces that the bot left the voice channel.
func (n *DiscordNotifier) SendDeparture(channelID snowflake.ID, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       colorNeutral,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// Ensure DiscordNotifier implements ports.Notifier.
var _ ports.Notifier = (*DiscordNotifier)(nil)
