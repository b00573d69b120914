package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Feed     FeedConfig     `mapstructure:"feed"`
	Debug    DebugConfig    `mapstructure:"debug"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// FeedConfig holds feed retrieval configuration
type FeedConfig struct {
	URL                  string   `mapstructure:"url"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	UserAgent            string   `mapstructure:"user_agent"`
	Proxies              []string `mapstructure:"proxies"`
}

// DebugConfig mirrors the debug mode of the command line: the raw feed and the
// rendered report are kept on disk.
type DebugConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	CacheFile   string `mapstructure:"cache_file"`
	ResultsFile string `mapstructure:"results_file"`
}

// CacheConfig selects where the raw feed is cached
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // none, file or redis
	TTL     int    `mapstructure:"ttl"`     // seconds, redis only
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	StreamEnabled bool   `mapstructure:"stream_enabled"`
	StreamPrefix  string `mapstructure:"stream_prefix"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Cache backends
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Load reads config.yaml from the working directory, or configFile when set, with
// environment variable and command line overrides. A missing default config file
// is fine; a missing explicit one is not.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.Debug.Enabled {
		config.Log.Level = "debug"
		if config.Cache.Backend == CacheNone {
			config.Cache.Backend = CacheFile
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive, got %d", c.Feed.Timeout)
	}
	return nil
}

// bindFlags maps command line flags onto config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"debug":     "debug.enabled",
		"cache":     "cache.backend",
		"log-level": "log.level",
	}
	for flag, key := range bindings {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.timeout", 60)
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.max_requests_per_second", 5)
	v.SetDefault("feed.user_agent", "ymlfeed-report/1.0")
	v.SetDefault("feed.proxies", []string{})

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.cache_file", "./resources/example.xml")
	v.SetDefault("debug.results_file", "./resources/results.txt")

	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.ttl", 3600)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_enabled", false)
	v.SetDefault("redis.stream_prefix", "ymlfeed:stream:")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "ymlfeed")
	v.SetDefault("database.user", "ymlfeed_user")
	v.SetDefault("database.password", "ymlfeed_pass")

	v.SetDefault("log.level", "info")
}
