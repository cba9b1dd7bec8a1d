// Package config manages the runtime configuration of the dashboard API.
//
// It reads variables from the process environment (and from a `.env` file
// when one is present), loads them on top of a set of defaults, maps them into
// structured Go types and validates them so the process fails fast on bad or
// missing configuration.
//
// Responsibilities:
//   - Provide defaults for every optional block.
//   - Map `DASHBOARD_`-prefixed env vars into Config.
//   - Validate required values and cross-field rules (e.g. the store driver
//     needs its connection block).
//
// Per-request credentials (API keys, tokens) are NOT part of Config; they are
// looked up on every request through a SecretSource (see secrets.go).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before anything
	// reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the DASHBOARD_ prefix. The prefix is trimmed,
	the remainder lowercased, and "." is the nesting delimiter:

	  DASHBOARD_SERVER.PORT        -> server.port        -> Config.Server.Port
	  DASHBOARD_STORE.DRIVER       -> store.driver       -> Config.Store.Driver
	  DASHBOARD_INTEGRATION.GITHUB.ALLOWED_ORIGIN -> Config.Integration.GitHub.AllowedOrigin
*/

// EnvPrefix is the prefix shared by every configuration variable.
const EnvPrefix = "DASHBOARD_"

// ServiceName tags logs and APM data.
const ServiceName = "personal-dashboard"

// Store drivers.
const (
	StoreDriverDynamo   = "dynamodb"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// Database is a pointer because it is only required by the postgres store
// driver. Observability is a pointer because it is optional; defaults are
// injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Dynamo        DynamoConfig         `koanf:"dynamo"`
	Redis         RedisConfig          `koanf:"redis"`
	Database      *DatabaseConfig      `koanf:"database"`
	Expense       ExpenseConfig        `koanf:"expense"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required"`

	// RateLimit is the per-client request rate (req/s). Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// StoreConfig selects the expense store backend and names its table.
type StoreConfig struct {
	Driver        string `koanf:"driver" validate:"required,oneof=dynamodb redis postgres"`
	Table         string `koanf:"table" validate:"required"`
	CategoryIndex string `koanf:"category_index" validate:"required"`
}

// DynamoConfig configures the DynamoDB client. Credentials follow the AWS
// default chain (env, shared config, instance role).
type DynamoConfig struct {
	Region string `koanf:"region"`
	// Endpoint overrides the service endpoint (DynamoDB Local, LocalStack).
	Endpoint string `koanf:"endpoint"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// ExpenseConfig toggles expense endpoints that are off by default.
type ExpenseConfig struct {
	// LegacyRoutes exposes PATCH (update) and GET /expenses/category/:category.
	LegacyRoutes bool `koanf:"legacy_routes"`
}

// IntegrationConfig holds the non-secret settings of the outbound REST APIs.
type IntegrationConfig struct {
	HTTPTimeout time.Duration `koanf:"http_timeout"`
	GitHub      GitHubConfig  `koanf:"github" validate:"required"`
	News        NewsConfig    `koanf:"news" validate:"required"`
	Weather     WeatherConfig `koanf:"weather" validate:"required"`
}

type GitHubConfig struct {
	BaseURL       string `koanf:"base_url" validate:"required,url"`
	AllowedOrigin string `koanf:"allowed_origin" validate:"required"`
}

type NewsConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

type WeatherConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// Validate applies the cross-field rules struct tags cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when store.driver is %q", StoreDriverRedis)
		}
	case StoreDriverPostgres:
		if c.Database == nil {
			return fmt.Errorf("database block is required when store.driver is %q", StoreDriverPostgres)
		}
	case StoreDriverDynamo:
		if c.Dynamo.Region == "" {
			return fmt.Errorf("dynamo.region is required when store.driver is %q", StoreDriverDynamo)
		}
	}

	if c.Integration.HTTPTimeout < 0 {
		return fmt.Errorf("integration.http_timeout must be non-negative")
	}

	return nil
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env":                       "development",
		"server.port":                       "8080",
		"server.read_timeout":               30,
		"server.write_timeout":              30,
		"server.idle_timeout":               60,
		"server.rate_limit":                 20,
		"store.driver":                      StoreDriverDynamo,
		"store.table":                       "expenses-table",
		"store.category_index":              "category-index",
		"dynamo.region":                     "us-east-1",
		"integration.http_timeout":          "10s",
		"integration.github.base_url":       "https://api.github.com",
		"integration.github.allowed_origin": "*",
		"integration.news.base_url":         "https://newsapi.org",
		"integration.weather.base_url":      "https://api.weatherapi.com",

		"observability.service_name":                          ServiceName,
		"observability.environment":                           "development",
		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.slow_query_threshold":          "100ms",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
	}
}

// LoadConfig loads the defaults, overlays the environment, unmarshals into
// Config, validates the result and injects observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are never user-configurable.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
