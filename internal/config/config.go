package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds settings for both the rentctl CLI and the mock backend.
type Config struct {
	// APIURL is the backend origin every request is sent to.
	APIURL   string `env:"RENTGRID_API_URL,   default=http://localhost:4000"`
	StateDir string `env:"RENTGRID_STATE_DIR"`
	LogLevel string `env:"LOG_LEVEL,          default=info"`
	Pretty   bool   `env:"LOG_PRETTY,         default=true"`

	Redis RedisConfig
	Mock  MockConfig
}

// RedisConfig selects the optional redis-backed local store. When Addr is
// empty the file store under StateDir is used instead.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// MockConfig configures the bundled development backend.
type MockConfig struct {
	Port      string        `env:"PORT,       default=4000"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret"`
	UploadDir string        `env:"UPLOAD_DIR, default=uploads"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.StateDir = filepath.Join(home, ".rentgrid")
	}
	return &cfg, nil
}
