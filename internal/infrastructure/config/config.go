package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,       default=8080"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`

	Log   LogConfig
	API   APIConfig
	Admin AdminConfig
	Redis RedisConfig
}

type LogConfig struct {
	Pretty bool `env:"LOG_PRETTY, default=false"`
	// File enables a rotating log file next to stdout when set.
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB, default=100"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS, default=5"`
}

// APIConfig locates the storefront API. A zero Timeout leaves request
// deadlines to the transport.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:3000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=0s"`
}

type AdminConfig struct {
	SignInPath string `env:"ADMIN_SIGNIN_PATH, default=/admin/login"`
}

// RedisConfig configures the cross-process cart relay. An empty Addr disables
// it.
type RedisConfig struct {
	Addr    string `env:"REDIS_ADDR"`
	DB      int    `env:"REDIS_DB,      default=0"`
	Channel string `env:"REDIS_CHANNEL, default=storefront:cart"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from the given lookuper (tests).
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// RelayEnabled reports whether cart changes are shared through Redis.
func (c *Config) RelayEnabled() bool {
	return c.Redis.Addr != ""
}
