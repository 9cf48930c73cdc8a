package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains gateway configuration parameters.
type Config struct {
	Google  Google  `envPrefix:"GOOGLE_"`
	Token   Token   `envPrefix:""`
	Server  Server  `envPrefix:""`
	Metrics Metrics `envPrefix:"METRICS_"`
	Debug   bool    `env:"DEBUG" envDefault:"false"`
}

// Google contains the OAuth client registration for the Google APIs.
type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURI  string `env:"REDIRECT_URI" envDefault:"http://localhost:12000/auth/callback"`
}

// Token contains bearer token signing parameters.
type Token struct {
	Secret        string `env:"SECRET_KEY" envDefault:"your-secret-key-change-this-in-production"`
	Algorithm     string `env:"ALGORITHM" envDefault:"HS256"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"10080"`
}

// Server contains HTTP listener parameters.
type Server struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"12000"`
}

// Metrics contains the Prometheus listener parameters.
type Metrics struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Addr    string `env:"ADDR" envDefault:":9090"`
}

// SessionTTL returns the configured bearer token lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Token.ExpireMinutes) * time.Minute
}

// ListenAddr returns the host:port pair for the HTTP listener.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
