package presentation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/application/ports"
	"github.com/resonabot/resona/internal/modules/music/domain"
)

// Disconnector tears down a guild's playback session.
type Disconnector interface {
	Disconnect(ctx context.Context, guildID snowflake.ID) error
}

// PresenceMonitor watches voice state updates and disconnects the bot when
// the last listener leaves its channel.
type PresenceMonitor struct {
	botID      snowflake.ID
	store      domain.SessionStore
	voiceState ports.VoiceStateProvider
	player     Disconnector
	notifier   ports.Notifier
}

// NewPresenceMonitor creates a new PresenceMonitor.
func NewPresenceMonitor(
	botID snowflake.ID,
	store domain.SessionStore,
	voiceState ports.VoiceStateProvider,
	player Disconnector,
	notifier ports.Notifier,
) *PresenceMonitor {
	return &PresenceMonitor{
		botID:      botID,
		store:      store,
		voiceState: voiceState,
		player:     player,
		notifier:   notifier,
	}
}

// HandleVoiceStateUpdate reacts to listeners joining or leaving voice
// channels. The bot's own updates are ignored here; those belong to the
// voice handshake, and counting the bot would keep it in an empty channel.
func (m *PresenceMonitor) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if event.UserID == m.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	session := m.store.Get(guildID)
	if session == nil {
		return
	}
	channelID := session.VoiceChannelID()
	if channelID == 0 {
		return
	}

	occupants, err := m.voiceState.CountNonBotOccupants(guildID, channelID)
	if err != nil {
		slog.Warn("failed to count voice channel occupants",
			"guild", guildID, "channel", channelID, "error", err)
		return
	}
	if occupants > 0 {
		return
	}

	notificationChannelID := session.NotificationChannelID()

	slog.Info("voice channel empty, disconnecting", "guild", guildID, "channel", channelID)
	if err := m.player.Disconnect(context.Background(), guildID); err != nil {
		slog.Warn("failed to disconnect from empty channel", "guild", guildID, "error", err)
		return
	}

	if notificationChannelID != 0 {
		err := m.notifier.SendDeparture(notificationChannelID,
			"Everyone left the voice channel, so I stopped playback.")
		if err != nil {
			slog.Warn("failed to send departure notice", "guild", guildID, "error", err)
		}
	}
}
