package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all client configuration
type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	OTEL     OTELConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig holds the BookVenue REST API settings
type APIConfig struct {
	BaseURL  string
	AssetURL string
	Timeout  time.Duration
}

// StorageConfig selects and configures the persistent key-value store
type StorageConfig struct {
	Driver     string
	SQLitePath string
	KeyPrefix  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CheckoutConfig holds payment sheet configuration
type CheckoutConfig struct {
	Provider    string
	KeyID       string
	Currency    string
	Brand       string
	ImageURL    string
	ThemeHex    string
	MockOutcome string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Storage drivers
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "bookvenue-client"),
			Env:  getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:  strings.TrimRight(getEnv("BOOKVENUE_API_URL", "https://admin.bookvenue.app/api"), "/"),
			AssetURL: strings.TrimRight(getEnv("BOOKVENUE_ASSET_URL", "https://admin.bookvenue.app"), "/"),
			Timeout:  time.Duration(getEnvAsInt("BOOKVENUE_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverSQLite)),
			SQLitePath: getEnv("STORAGE_SQLITE_PATH", "bookvenue.db"),
			KeyPrefix:  getEnv("STORAGE_KEY_PREFIX", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Checkout: CheckoutConfig{
			Provider:    strings.ToLower(getEnv("CHECKOUT_PROVIDER", "mock")),
			KeyID:       getEnv("RAZORPAY_KEY_ID", ""),
			Currency:    getEnv("CHECKOUT_CURRENCY", "INR"),
			Brand:       getEnv("CHECKOUT_BRAND", "BookVenue"),
			ImageURL:    getEnv("CHECKOUT_IMAGE_URL", "https://images.pexels.com/photos/3775042/pexels-photo-3775042.jpeg"),
			ThemeHex:    getEnv("CHECKOUT_THEME_COLOR", "#2563EB"),
			MockOutcome: strings.ToLower(getEnv("CHECKOUT_MOCK_OUTCOME", "success")),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "bookvenue-client"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Storage.Driver {
	case StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
