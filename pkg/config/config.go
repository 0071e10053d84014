package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every field carries its full SHOPFRONT_ name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	State StateConfig
	Sync  SyncConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHOPFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the storefront REST API.
type APIConfig struct {
	BaseURL string        `envconfig:"SHOPFRONT_API_BASE_URL" default:"http://localhost:8080/api"`
	Timeout time.Duration `envconfig:"SHOPFRONT_API_TIMEOUT" default:"10s"`
}

// StateConfig locates the persistent local key-value store.
type StateConfig struct {
	Path string `envconfig:"SHOPFRONT_STATE_PATH" default:"shopfront.db"`
}

// SyncConfig tunes the cart reconciliation engine and catalog caching.
type SyncConfig struct {
	NotificationCooldown time.Duration `envconfig:"SHOPFRONT_SYNC_NOTIFICATION_COOLDOWN" default:"30s"`
	SaleCacheTTL         time.Duration `envconfig:"SHOPFRONT_SALE_CACHE_TTL" default:"1m"`
}
