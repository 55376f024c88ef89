// Package config loads the SDK's settings from a config file and the
// DIGISOL_-prefixed environment, with an optional .env file for development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/digisolai/digisol.ai-sub000/tokenstore"
	"github.com/digisolai/digisol.ai-sub000/tokenstore/redisstore"
)

// Token store backends selectable via tokenstore.backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TokenStoreConfig struct {
	Backend    string
	Path       string // file backend: where the token document lives
	Passphrase string // file backend: enables at-rest encryption when set
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type Config struct {
	Environment string
	API         APIConfig
	TokenStore  TokenStoreConfig
	Redis       RedisConfig
}

// Load reads digisol.yaml (working directory or ./config) merged with
// DIGISOL_-prefixed environment variables. A .env file is honoured when
// present. Missing config files are fine; the defaults stand.
func Load() (*Config, error) {
	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("digisol")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DIGISOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.baseurl is required")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.baseurl", "https://api.digisol.ai")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("tokenstore.backend", BackendMemory)
	v.SetDefault("tokenstore.path", ".digisol/tokens.json")
	// Registered so the environment can override them: viper only reads
	// automatic env values for keys it already knows about.
	v.SetDefault("tokenstore.passphrase", "")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyprefix", "digisol:session")
	v.SetDefault("redis.ttl", "0s")
}

// BuildStore constructs the configured token store backend.
func (c *Config) BuildStore() (tokenstore.Store, error) {
	switch c.TokenStore.Backend {
	case BackendMemory, "":
		return tokenstore.NewInMemoryStore(), nil

	case BackendFile:
		var options []tokenstore.FileStoreOption
		if c.TokenStore.Passphrase != "" {
			options = append(options, tokenstore.WithPassphrase(c.TokenStore.Passphrase))
		}
		return tokenstore.NewFileStore(c.TokenStore.Path, options...)

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		var options []redisstore.Option
		if c.Redis.TTL > 0 {
			options = append(options, redisstore.WithTTL(c.Redis.TTL))
		}
		return redisstore.New(client, c.Redis.KeyPrefix, options...)

	default:
		return nil, fmt.Errorf("unknown token store backend %q", c.TokenStore.Backend)
	}
}
