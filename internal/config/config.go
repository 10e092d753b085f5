package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/skybi/identity-server/internal/paging"
	"strings"
	"time"
)

// Names of the supported storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverInmem    = "inmem"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `default:"prod"`

	ListenAddress string `default:":8080" split_words:"true"`
	BaseAddress   string `default:"http://localhost:8080" split_words:"true"`
	AllowedOrigin string `default:"*" split_words:"true"`

	StorageDriver string        `default:"postgres" split_words:"true"`
	PostgresDSN   string        `default:"" split_words:"true"`
	CacheLifetime time.Duration `default:"5m" split_words:"true"`

	DefaultPageSize int `default:"30" split_words:"true"`
	MaxPageSize     int `default:"200" split_words:"true"`
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.ToLower(config.Environment) == "prod"
}

// PagingOptions returns the configured paging limits
func (config *Config) PagingOptions() paging.Options {
	return paging.Options{
		DefaultPageSize: config.DefaultPageSize,
		MaxPageSize:     config.MaxPageSize,
	}
}

// Validate checks the configuration values envconfig cannot check on its own
func (config *Config) Validate() error {
	switch config.StorageDriver {
	case StorageDriverPostgres:
		if config.PostgresDSN == "" {
			return fmt.Errorf("the '%s' storage driver requires a DSN", config.StorageDriver)
		}
	case StorageDriverInmem:
	default:
		return fmt.Errorf("unknown storage driver '%s'", config.StorageDriver)
	}
	if config.DefaultPageSize < 1 || config.MaxPageSize < 1 {
		return fmt.Errorf("page sizes have to be positive (default: %d, max: %d)", config.DefaultPageSize, config.MaxPageSize)
	}
	if config.DefaultPageSize > config.MaxPageSize {
		return fmt.Errorf("the default page size (%d) exceeds the maximum one (%d)", config.DefaultPageSize, config.MaxPageSize)
	}
	return nil
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("identity", config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
