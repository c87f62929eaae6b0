package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
	Manager  ManagerConfig  `mapstructure:"manager"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type GeocoderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects the durable address store: postgres, valkey, or memory.
type CacheConfig struct {
	Backend string `mapstructure:"backend"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type ManagerConfig struct {
	MaxCandidates int `mapstructure:"max_candidates"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
	BackendMemory   = "memory"
)

// Load reads and fully validates the server configuration.
func Load(paths ...string) (*Config, error) {
	cfg, err := read(paths)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads the configuration but only requires the database settings.
func LoadDatabase(paths ...string) (*Config, error) {
	cfg, err := read(paths)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return nil, errors.New("config validation failed: database.url is required (DATABASE_URL)")
	}
	return cfg, nil
}

// read loads an optional .env file, an optional config.yaml under paths,
// and environment variables. Environment keys use the FOODCART_ prefix
// (FOODCART_SERVER_PORT -> server.port); DATABASE_URL and
// YANDEX_GEOCODER_API_KEY are accepted as well.
func read(paths []string) (*Config, error) {
	// Optional; runs before logging is configured, so a missing file stays silent.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("geocoder.base_url", "https://geocode-maps.yandex.ru/1.x")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.timeout", 5*time.Second)
	v.SetDefault("cache.backend", BackendPostgres)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("manager.max_candidates", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("FOODCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "FOODCART_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("geocoder.api_key", "FOODCART_GEOCODER_API_KEY", "YANDEX_GEOCODER_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, "database.url is required (DATABASE_URL)")
	}
	if strings.TrimSpace(c.Geocoder.BaseURL) == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if strings.TrimSpace(c.Geocoder.APIKey) == "" {
		errs = append(errs, "geocoder.api_key is required (YANDEX_GEOCODER_API_KEY)")
	}
	if c.Geocoder.Timeout <= 0 {
		errs = append(errs, "geocoder.timeout must be positive")
	}
	switch c.Cache.Backend {
	case BackendPostgres, BackendMemory:
	case BackendValkey:
		if strings.TrimSpace(c.Valkey.Addr) == "" {
			errs = append(errs, "valkey.addr is required when cache.backend=valkey")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be one of postgres, valkey, memory, got %q", c.Cache.Backend))
	}
	if c.Manager.MaxCandidates < 0 {
		errs = append(errs, "manager.max_candidates must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
