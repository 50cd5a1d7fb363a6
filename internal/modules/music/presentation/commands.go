package presentation

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the music module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a track from URL or search",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "query",
					Description:  "URL or search term",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume level (0-150, default 100)",
					Required:    true,
					MinValue:    floatPtr(0),
					MaxValue:    150,
				},
			},
		},
		{
			Name:        "stop",
			Description: "Stop playback and leave the voice channel",
		},
		{
			Name:        "skip",
			Description: "Skip the current track",
		},
		{
			Name:        "queue",
			Description: "Show the current queue",
		},
		{
			Name:        "loop",
			Description: "Toggle looping of the current track",
		},
		{
			Name:        "history",
			Description: "Show recently played tracks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "How many entries to show (default 10)",
					Required:    false,
					MinValue:    floatPtr(1),
					MaxValue:    25,
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
