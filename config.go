package authflow

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Config carries the knobs the library needs to wire itself: where the
// identity service lives and where the credential token is persisted.
// Values load from the environment, with a .env file picked up when present.
type Config struct {
	// ServiceURL is the identity service root.
	ServiceURL string `env:"AUTHFLOW_SERVICE_URL" envDefault:"http://localhost:4000"`
	// HTTPTimeout bounds identity service round trips. The core defines no
	// timeout policy of its own; this belongs to the transport.
	HTTPTimeout time.Duration `env:"AUTHFLOW_HTTP_TIMEOUT" envDefault:"10s"`
	// TokenPath is the token file location. Empty means a per-user default
	// under the OS config directory.
	TokenPath string `env:"AUTHFLOW_TOKEN_PATH"`
	// RedisAddr switches token persistence to Redis when set.
	RedisAddr     string        `env:"AUTHFLOW_REDIS_ADDR"`
	RedisPassword string        `env:"AUTHFLOW_REDIS_PASSWORD"`
	RedisDB       int           `env:"AUTHFLOW_REDIS_DB" envDefault:"0"`
	RedisKey      string        `env:"AUTHFLOW_REDIS_KEY" envDefault:"authflow:token"`
	RedisTimeout  time.Duration `env:"AUTHFLOW_REDIS_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads the environment, merging in a .env file when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse environment")
	}

	if cfg.TokenPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not resolve config directory")
		}
		cfg.TokenPath = filepath.Join(base, "authflow", "token")
	}

	return cfg, nil
}

// NewTokenStore builds the persistence backend the config points at: Redis
// when an address is set, the token file otherwise.
func (c *Config) NewTokenStore() (TokenStore, error) {
	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		return NewRedisTokenStore(rdb, c.RedisKey).WithTimeout(c.RedisTimeout), nil
	}

	return NewFileTokenStore(c.TokenPath)
}

// NewIdentityClient builds the HTTP client against the configured service.
func (c *Config) NewIdentityClient() *HTTPIdentityClient {
	client := NewHTTPIdentityClient(c.ServiceURL)
	if c.HTTPTimeout > 0 {
		client.http.Timeout = c.HTTPTimeout
	}
	return client
}
