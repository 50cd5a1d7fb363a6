package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/bot"
	"github.com/resonabot/resona/internal/modules/music/application/usecases"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

const defaultHistoryCount = 10

// Handlers holds all the command handlers.
type Handlers struct {
	player *usecases.PlayerService
}

// NewHandlers creates new Handlers.
func NewHandlers(player *usecases.PlayerService) *Handlers {
	return &Handlers{player: player}
}

// HandlePlay handles the /play command.
func (h *Handlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	output, err := h.player.Play(context.Background(), usecases.PlayInput{
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
		Query:     query,
	})
	if err != nil {
		return respondError(r, friendlyError(err))
	}

	if output.Queued {
		return respondQueued(r, output.Track, output.Position)
	}
	return respondNowPlaying(r, output.Track)
}

// HandleVolume handles the /volume command.
func (h *Handlers) HandleVolume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var level int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "level" {
			level = int(opt.IntValue())
		}
	}

	if err := h.player.SetVolume(context.Background(), guildID, level); err != nil {
		return respondError(r, friendlyError(err))
	}

	return respondSuccess(r, fmt.Sprintf("Volume set to %d%%.", level))
}

// HandleStop handles the /stop command.
func (h *Handlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.player.Stop(context.Background(), guildID); err != nil {
		return respondError(r, friendlyError(err))
	}

	return respondSuccess(r, "Stopped playback.")
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	skipped, err := h.player.Skip(context.Background(), guildID)
	if err != nil {
		return respondError(r, friendlyError(err))
	}

	if skipped.URI != "" {
		return respondSuccess(r, fmt.Sprintf("Skipped [%s](%s).", skipped.Title, skipped.URI))
	}
	return respondSuccess(r, fmt.Sprintf("Skipped **%s**.", skipped.Title))
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	view, err := h.player.Queue(guildID)
	if err != nil {
		return respondError(r, friendlyError(err))
	}

	return respondQueueView(r, view)
}

// HandleLoop handles the /loop command.
func (h *Handlers) HandleLoop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	looping, err := h.player.ToggleLoop(guildID)
	if err != nil {
		return respondError(r, friendlyError(err))
	}

	if looping {
		return respondSuccess(r, "Looping the current track.")
	}
	return respondSuccess(r, "Loop disabled.")
}

// HandleHistory handles the /history command.
func (h *Handlers) HandleHistory(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	count := defaultHistoryCount
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = int(opt.IntValue())
		}
	}

	entries, err := h.player.Recent(context.Background(), guildID, count)
	if err != nil {
		return respondError(r, friendlyError(err))
	}
	if len(entries) == 0 {
		return respondSuccess(r, "No playback history yet.")
	}

	var sb strings.Builder
	for idx, entry := range entries {
		fmt.Fprintf(&sb, "%d. [%s](%s) by %s\n", idx+1, entry.Title, entry.URI, entry.Author)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Recently Played",
					Description: sb.String(),
				},
			},
		},
	})
}

// friendlyError maps usecase errors to user-facing messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, usecases.ErrNoVoiceChannel):
		return "Join a voice channel first."
	case errors.Is(err, usecases.ErrEmptyQuery):
		return "Give me something to search for."
	case errors.Is(err, usecases.ErrNoResults):
		return "No playable tracks found for that query."
	case errors.Is(err, usecases.ErrInvalidVolume):
		return fmt.Sprintf("Volume must be between %d and %d.", domain.MinVolume, domain.MaxVolume)
	case errors.Is(err, usecases.ErrNodeUnavailable):
		return "The audio service is unavailable right now. Try again in a moment."
	case errors.Is(err, usecases.ErrJoinTimeout):
		return "Couldn't connect to the voice channel in time. Try again in a moment."
	case errors.Is(err, usecases.ErrNotConnected):
		return "I'm not connected to a voice channel."
	case errors.Is(err, usecases.ErrNothingPlaying):
		return "Nothing is playing."
	default:
		return err.Error()
	}
}

// Response helpers.

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

func respondSuccess(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondNowPlaying(r bot.Responder, track *domain.Track) error {
	source := domain.ParseTrackSource(track.SourceName)

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: "Now Playing"},
		Title:  track.Title,
		URL:    track.URI,
		Color:  source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: track.Author, Inline: true},
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
		},
	}
	if track.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ThumbnailURL}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondQueued(r bot.Responder, track *domain.Track, position int) error {
	return respondSuccess(r,
		fmt.Sprintf("Added **%s** to the queue (position %d).", track.Title, position))
}

func respondQueueView(r bot.Responder, view *usecases.QueueView) error {
	var sb strings.Builder
	if view.Current != nil {
		fmt.Fprintf(&sb, "**Now playing:** [%s](%s)", view.Current.Title, view.Current.URI)
		if view.Loop {
			sb.WriteString(" (looping)")
		}
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("Nothing is playing.\n\n")
	}

	if len(view.Queue) == 0 {
		sb.WriteString("The queue is empty.")
	} else {
		for idx, track := range view.Queue {
			fmt.Fprintf(&sb, "%d. [%s](%s) (%s)\n",
				idx+1, track.Title, track.URI, track.FormattedDuration())
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Queue",
					Description: sb.String(),
					Footer: &discordgo.MessageEmbedFooter{
						Text: fmt.Sprintf("Volume: %d%%", view.Volume),
					},
				},
			},
		},
	})
}
