package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins is a comma-separated allow list.
	CORSOrigins string `env:"CORS_ORIGINS, default=*"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	GitHub  GitHubConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,    default=cse341"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	// Secret signs both the session cookie and the OAuth state.
	Secret string        `env:"SESSION_SECRET, default=change-me-in-production"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
}

type GitHubConfig struct {
	ClientID     string `env:"GITHUB_CLIENT_ID"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	CallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether cookies must be Secure and URLs https.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// OAuthCallbackURL returns GITHUB_CALLBACK_URL, or the local callback when unset.
func (c *Config) OAuthCallbackURL() string {
	if c.GitHub.CallbackURL != "" {
		return c.GitHub.CallbackURL
	}
	scheme := "http"
	if c.IsProduction() {
		scheme = "https"
	}
	return fmt.Sprintf("%s://localhost:%s/auth/github/callback", scheme, c.Port)
}

// AllowedOrigins splits CORSOrigins.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
