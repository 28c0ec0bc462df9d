// Package config provides configuration management for the ApostasPro
// core services.
package config

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Recognition RecognitionConfig `mapstructure:"recognition" validate:"required"`
	Fallback    FallbackConfig    `mapstructure:"fallback" validate:"required"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// RecognitionConfig represents the text-recognition service configuration
type RecognitionConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// FallbackConfig represents the AI fallback service configuration
type FallbackConfig struct {
	URL               string  `mapstructure:"url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryBackoffMS    int     `mapstructure:"retry_backoff_ms" validate:"required,gt=0"`
	ImageDelayMS      int     `mapstructure:"image_delay_ms" validate:"required,gt=0"`
	RateLimitPerSec   float64 `mapstructure:"rate_limit_per_sec" validate:"gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// DashboardConfig represents dashboard refresh and health configuration
type DashboardConfig struct {
	RefreshCron string `mapstructure:"refresh_cron" validate:"required"`
	HealthPort  string `mapstructure:"health_port" validate:"required"`
}
