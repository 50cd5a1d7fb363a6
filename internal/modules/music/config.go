package music

// Config holds the music module configuration.
type Config struct {
	NodeName     string `env:"NODE_NAME" envDefault:"main"`
	NodeAddress  string `env:"NODE_ADDRESS,notEmpty"`
	NodePassword string `env:"NODE_PASSWORD,notEmpty"`
	NodeSecure   bool   `env:"NODE_SECURE" envDefault:"false"`

	// StopKeepsQueue controls whether /stop preserves queued tracks for a
	// later /play.
	StopKeepsQueue bool `env:"MUSIC_STOP_KEEPS_QUEUE" envDefault:"true"`

	// HistoryPath is the SQLite file for playback history. Empty disables
	// history persistence.
	HistoryPath string `env:"MUSIC_HISTORY_PATH" envDefault:""`
}
