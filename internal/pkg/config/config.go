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

	Auth    AuthConfig
	Credits CreditsConfig
	Engine  EngineConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	// ArtifactDir is where generation output JSON is written.
	ArtifactDir string `env:"ARTIFACT_DIR, default=generated"`
}

// AuthConfig holds the token secrets and lifetimes. The two secrets are
// independent so a leaked access secret cannot forge refresh tokens.
type AuthConfig struct {
	AccessSecret      string `env:"JWT_ACCESS_KEY"`
	RefreshSecret     string `env:"JWT_REFRESH_KEY"`
	AccessTTLMinutes  int    `env:"JWT_ACCESS_TOKEN_EXPIRE_MINUTES, default=120"`
	RefreshTTLDays    int    `env:"JWT_REFRESH_TOKEN_EXPIRE_DAYS,   default=30"`
}

type CreditsConfig struct {
	// Default is the starting balance granted at signup.
	Default int64 `env:"DEFAULT_CREDITS,   default=500"`
	// PerImage is the cost debited per generated image.
	PerImage int64 `env:"CREDITS_PER_IMAGE, default=10"`
	// IncrementStep is the top-up amount applied by the refill operation.
	IncrementStep int64 `env:"CREDITS_INCREMENT_STEP, default=500"`
}

type EngineConfig struct {
	URL            string `env:"ENGINE_URL, default=http://localhost:7860"`
	TimeoutSeconds int    `env:"ENGINE_TIMEOUT_SECONDS, default=600"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=imezy"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate rejects configurations the process must not start with.
func (c *Config) Validate() error {
	if c.Auth.AccessSecret == "" {
		return fmt.Errorf("config: JWT_ACCESS_KEY is required")
	}
	if c.Auth.RefreshSecret == "" {
		return fmt.Errorf("config: JWT_REFRESH_KEY is required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return fmt.Errorf("config: access and refresh secrets must differ")
	}
	return nil
}

// AccessTTL returns the access token lifetime as a duration.
func (c *AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (c *AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}
