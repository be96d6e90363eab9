package config

import (
	"context"
	"time"
)

// Config is the complete wanderly configuration.
type Config struct {
	Runtime   RuntimeConfig   `koanf:"runtime" json:"runtime" validate:"required"`
	Itinerary ItineraryConfig `koanf:"itinerary" json:"itinerary" validate:"required"`
	CLI       CLIConfig       `koanf:"cli" json:"cli" validate:"required"`
	Session   SessionConfig   `koanf:"session" json:"session"`
	Redis     RedisConfig     `koanf:"redis" json:"redis"`
}

// RuntimeConfig controls logging.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level" json:"log_level" validate:"oneof=debug info warn error disabled" env:"WANDERLY_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json" json:"log_json" env:"WANDERLY_LOG_JSON"`
	LogSource bool   `koanf:"log_source" json:"log_source" env:"WANDERLY_LOG_SOURCE"`
}

// ItineraryConfig controls the certification pipeline.
type ItineraryConfig struct {
	DefaultTitle  string `koanf:"default_title" json:"default_title" validate:"required" env:"WANDERLY_DEFAULT_TITLE"`
	SchemaVersion int    `koanf:"schema_version" json:"schema_version" validate:"min=1" env:"WANDERLY_SCHEMA_VERSION"`
	CertifyEdits  bool   `koanf:"certify_edits" json:"certify_edits" env:"WANDERLY_CERTIFY_EDITS"`
}

// CLIConfig controls command output.
type CLIConfig struct {
	Format  string `koanf:"format" json:"format" validate:"oneof=json yaml" env:"WANDERLY_FORMAT"`
	Pretty  bool   `koanf:"pretty" json:"pretty" env:"WANDERLY_PRETTY"`
	Workers int    `koanf:"workers" json:"workers" validate:"min=1,max=64" env:"WANDERLY_WORKERS"`
}

// SessionConfig selects where conversation documents are kept.
type SessionConfig struct {
	Store     string        `koanf:"store" json:"store" validate:"oneof=memory redis" env:"WANDERLY_SESSION_STORE"`
	CacheSize int           `koanf:"cache_size" json:"cache_size" validate:"min=1" env:"WANDERLY_SESSION_CACHE_SIZE"`
	TTL       time.Duration `koanf:"ttl" json:"ttl" env:"WANDERLY_SESSION_TTL"`
	KeyPrefix string        `koanf:"key_prefix" json:"key_prefix" env:"WANDERLY_SESSION_KEY_PREFIX"`
}

// RedisConfig is used when the session store is redis.
type RedisConfig struct {
	Addr     string          `koanf:"addr" json:"addr" env:"WANDERLY_REDIS_ADDR"`
	Password SensitiveString `koanf:"password" json:"password" env:"WANDERLY_REDIS_PASSWORD" sensitive:"true"`
	DB       int             `koanf:"db" json:"db" env:"WANDERLY_REDIS_DB" validate:"min=0"`
}

// Service defines the configuration management service interface.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Watch registers a callback invoked on configuration updates.
	Watch(ctx context.Context, callback func(*Config)) error
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns which source provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	Load() (map[string]any, error)
	Watch(ctx context.Context, callback func()) error
	Type() SourceType
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads defaults and environment overrides with a fresh service.
func Load() (*Config, error) {
	return NewService().Load(context.Background())
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel:  "info",
			LogJSON:   false,
			LogSource: false,
		},
		Itinerary: ItineraryConfig{
			DefaultTitle:  "My Trip",
			SchemaVersion: 1,
			CertifyEdits:  false,
		},
		CLI: CLIConfig{
			Format:  "json",
			Pretty:  true,
			Workers: 4,
		},
		Session: SessionConfig{
			Store:     "memory",
			CacheSize: 1024,
			TTL:       24 * time.Hour,
			KeyPrefix: "wanderly:session:",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   0,
		},
	}
}
