// Package config loads server configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lspecian/maas-mcp-server/pkg/cache"
)

// Config stores all configuration of the server. Values are read by viper
// from a config file or MAAS_MCP_* environment variables.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	MAAS   MAASConfig   `mapstructure:"maas"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Audit  AuditConfig  `mapstructure:"audit"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig stores the HTTP surface settings.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// MAASConfig stores the upstream MAAS API settings.
type MAASConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig stores the resource cache settings.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Strategy is "time-based" or "lru".
	Strategy string `mapstructure:"strategy"`

	// Backend is "memory" or "redis".
	Backend string `mapstructure:"backend"`

	MaxSize       int `mapstructure:"max_size"`
	MaxAgeSeconds int `mapstructure:"max_age_seconds"`

	// ResourceTTL overrides the TTL for specific resources by name.
	ResourceTTL map[string]int `mapstructure:"resource_ttl"`

	// RedisURL is required when Backend is "redis".
	RedisURL string `mapstructure:"redis_url"`
}

// AuditConfig stores the audit sink settings.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig stores the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from the optional file at path and the
// environment. Environment variables use the MAAS_MCP prefix with
// underscores, e.g. MAAS_MCP_CACHE_MAX_AGE_SECONDS.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default registered so AutomaticEnv values survive
	// Unmarshal: viper only considers keys it already knows about.
	v.SetDefault("server.listen_addr", ":8081")
	v.SetDefault("maas.base_url", "")
	v.SetDefault("maas.api_key", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.strategy", string(cache.StrategyTimeBased))
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.max_age_seconds", 60)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("audit.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvPrefix("MAAS_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch cache.Strategy(c.Cache.Strategy) {
	case cache.StrategyTimeBased, cache.StrategyLRU:
	default:
		return fmt.Errorf("cache.strategy must be %q or %q, got %q",
			cache.StrategyTimeBased, cache.StrategyLRU, c.Cache.Strategy)
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required with the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}

	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache.max_size must be >= 0, got %d", c.Cache.MaxSize)
	}
	if c.Cache.MaxAgeSeconds <= 0 {
		return fmt.Errorf("cache.max_age_seconds must be > 0, got %d", c.Cache.MaxAgeSeconds)
	}
	for name, ttl := range c.Cache.ResourceTTL {
		if ttl <= 0 {
			return fmt.Errorf("cache.resource_ttl[%s] must be > 0, got %d", name, ttl)
		}
	}

	if c.MAAS.BaseURL == "" {
		return fmt.Errorf("maas.base_url is required")
	}
	return nil
}

// StoreConfig converts the cache section into a store configuration.
func (c *Config) StoreConfig() cache.Config {
	return cache.Config{
		Enabled:        c.Cache.Enabled,
		Strategy:       cache.Strategy(c.Cache.Strategy),
		MaxSize:        c.Cache.MaxSize,
		MaxAgeSeconds:  c.Cache.MaxAgeSeconds,
		PerResourceTTL: c.Cache.ResourceTTL,
	}
}
