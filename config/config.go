package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dealscout/backend/internal/observability"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Offers    OffersConfig    `mapstructure:"offers"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds language model API configuration.
// An empty APIKey disables every model-backed component.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	SearchModel string        `mapstructure:"search_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   int           `mapstructure:"rate_limit"` // requests per minute
	Debug       bool          `mapstructure:"debug"`
}

// Enabled reports whether model-backed components can be built
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// OffersConfig holds offer sourcing policy
type OffersConfig struct {
	LiveEnabled   bool   `mapstructure:"live_enabled"`
	AllowFallback bool   `mapstructure:"allow_fallback"`
	FeedURL       string `mapstructure:"feed_url"`
}

// CatalogConfig holds storefront catalog configuration
type CatalogConfig struct {
	Brand           string `mapstructure:"brand"`
	ShopifyDomain   string `mapstructure:"shopify_domain"`
	StorefrontToken string `mapstructure:"storefront_token"`
	APIVersion      string `mapstructure:"api_version"`
}

// StorefrontEnabled reports whether the remote storefront is configured
func (c CatalogConfig) StorefrontEnabled() bool {
	return c.ShopifyDomain != "" && c.StorefrontToken != ""
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscout/")

	v.SetEnvPrefix("DEALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory. A missing file is not an error,
// and variables already present in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key gets a default so that
// AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.search_model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "45s")
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.debug", false)

	v.SetDefault("offers.live_enabled", true)
	v.SetDefault("offers.allow_fallback", true)
	v.SetDefault("offers.feed_url", "")

	v.SetDefault("catalog.brand", "Telbises")
	v.SetDefault("catalog.shopify_domain", "")
	v.SetDefault("catalog.storefront_token", "")
	v.SetDefault("catalog.api_version", "2024-10")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "15m")

	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.LLM.RateLimit <= 0 {
		return fmt.Errorf("LLM rate limit must be positive, got: %d", config.LLM.RateLimit)
	}

	if strings.TrimSpace(config.Catalog.Brand) == "" {
		return fmt.Errorf("catalog brand is required (set DEALSCOUT_CATALOG_BRAND)")
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	if !observability.ValidLevel(config.Logging.Level) {
		return fmt.Errorf("unknown log level: %s", config.Logging.Level)
	}

	return nil
}
