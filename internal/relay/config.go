package relay

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the relay service settings, sourced from the environment.
type Config struct {
	// Port the HTTP listener binds to.
	Port int `env:"PORT" envDefault:"8787"`

	// GeminiAPIKey is the server-held upstream credential. The service
	// starts without it, but every request fails fast until it is set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// UpstreamBaseURL is the generative-model API host.
	UpstreamBaseURL string `env:"RELAY_UPSTREAM_URL" envDefault:"https://generativelanguage.googleapis.com"`

	// Model is the upstream model every request is routed to.
	Model string `env:"RELAY_MODEL" envDefault:"gemini-2.0-flash"`

	// LogLevel selects the slog level: debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses the relay configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse relay config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UpstreamURL returns the full generateContent endpoint, keyed with the
// server credential.
func (c *Config) UpstreamURL() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.UpstreamBaseURL, c.Model, c.GeminiAPIKey)
}
