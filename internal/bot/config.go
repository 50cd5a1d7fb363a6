package bot

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
}

// LoadConfig loads configuration from environment variables.
// A local .env file is applied first when present.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
