package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DataPath string `envconfig:"DATA_PATH" default:"./data/assistant.json"`
	TZ       string `envconfig:"TZ" default:"Local"`         // IANA name for the reminder clock
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`   // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`  // healthz
}

// Load reads a .env file if present, then environment variables into
// Config. A missing BOT_TOKEN is a startup error.
func Load() (Config, error) {
	// Best effort; a missing .env file is normal in production.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
