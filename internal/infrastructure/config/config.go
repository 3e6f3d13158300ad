package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig selects and configures the auth provider. Mode "local" verifies
// credentials and signs tokens in-process; mode "remote" delegates the whole
// contract to a hosted auth service.
type AuthConfig struct {
	Mode      string        `env:"AUTH_MODE,      default=local"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL, default=24h"`

	RemoteURL    string `env:"AUTH_REMOTE_URL"`
	RemoteAPIKey string `env:"AUTH_REMOTE_API_KEY"`

	Google GoogleConfig
}

// GoogleConfig configures the direct Google OAuth integration. All three
// fields empty means Google sign-in is disabled.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ordering_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs with production settings
// (JSON logs, Secure cookies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Enabled reports whether the Google integration is fully configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
