// Package config loads the process configuration from environment variables
// (optionally seeded from a .env file) and validates it.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gabapcia/blockpulse/internal/pkg/validator"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Upstream sources the feed can poll.
const (
	UpstreamEtherscan = "etherscan"
	UpstreamJSONRPC   = "jsonrpc"
)

// ErrInvalidConfig wraps every loading or validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	Upstream        string `envconfig:"UPSTREAM" default:"etherscan" validate:"oneof=etherscan jsonrpc"`
	EtherscanAPIKey string `envconfig:"ETHERSCAN_API_KEY" validate:"required_if=Upstream etherscan"`
	EtherscanAPIURL string `envconfig:"ETHERSCAN_API_URL" default:"https://api.etherscan.io/api" validate:"url"`
	RPCURL          string `envconfig:"RPC_URL" validate:"required_if=Upstream jsonrpc,omitempty,url"`

	Port            int           `envconfig:"PORT" default:"3000" validate:"min=1,max=65535"`
	StaticDir       string        `envconfig:"STATIC_DIR" default:"public"`
	UpdateInterval  time.Duration `envconfig:"UPDATE_INTERVAL" default:"10s" validate:"min=1s"`
	SocketAnyOrigin bool          `envconfig:"SOCKET_ANY_ORIGIN" default:"false"`

	UpstreamTimeout  time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s" validate:"gt=0"`
	UpstreamRetryMax int           `envconfig:"UPSTREAM_RETRY_MAX" default:"0" validate:"min=0,max=10"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisUsername string        `envconfig:"REDIS_USERNAME"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0" validate:"min=0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"0s" validate:"min=0"`

	LogLevel        string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	OtelEnabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"blockpulse" validate:"required"`
}

// HTTPAddr is the listen address for the HTTP server.
func (c Config) HTTPAddr() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

// BatchCacheTTL is how long a fetched block batch stays cached. It defaults
// to the update interval.
func (c Config) BatchCacheTTL() time.Duration {
	if c.CacheTTL > 0 {
		return c.CacheTTL
	}
	return c.UpdateInterval
}

// CacheEnabled reports whether a Redis batch cache was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Load reads .env (when present in the working directory) and then the
// process environment. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
