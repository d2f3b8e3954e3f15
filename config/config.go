package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config Application Configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Compare CompareConfig `mapstructure:"compare"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// AppConfig Application Configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// APIConfig Backend API client configuration
type APIConfig struct {
	BaseURL        string          `mapstructure:"base_url"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	MockMode       bool            `mapstructure:"mock_mode"`  // serve canned responses without touching the network
	MockDelay      time.Duration   `mapstructure:"mock_delay"` // artificial latency for mock responses
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// AuthConfig Login/lockout policy configuration
type AuthConfig struct {
	MaxLoginAttempts int           `mapstructure:"max_login_attempts"`
	LockoutDuration  time.Duration `mapstructure:"lockout_duration"`
}

// CatalogConfig Catalog browsing configuration
type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// CompareConfig Product comparison configuration
type CompareConfig struct {
	MaxItems int `mapstructure:"max_items"`
}

// StorageConfig Local persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // sqlite database file, ":memory:" for ephemeral
}

// ServerConfig Dev server configuration
type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	JWTSecret       string          `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration   `mapstructure:"token_ttl"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig Rate Limiting Configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // Requests per second
	Burst   int     `mapstructure:"burst"` // Burst capacity
}

// LogConfig Log Configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// IsDevelopment Whether it's development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction Whether it's production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load Load Configuration
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configuration file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read environment variables
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Use default values when config file doesn't exist
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults Set default configuration
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// API client
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.request_timeout", "15s")
	v.SetDefault("api.mock_mode", false)
	v.SetDefault("api.mock_delay", "300ms")
	v.SetDefault("api.rate_limit.enabled", true)
	v.SetDefault("api.rate_limit.rate", 50)
	v.SetDefault("api.rate_limit.burst", 100)

	// Auth lockout policy
	v.SetDefault("auth.max_login_attempts", 5)
	v.SetDefault("auth.lockout_duration", "10m")

	// Catalog
	v.SetDefault("catalog.page_size", 12)

	// Comparison
	v.SetDefault("compare.max_items", 4)

	// Local storage
	v.SetDefault("storage.path", "storefront.db")

	// Dev server
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.jwt_secret", "dev-only-secret")
	v.SetDefault("server.token_ttl", "24h")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 100)
	v.SetDefault("server.rate_limit.burst", 200)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	// CORS
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)
}
