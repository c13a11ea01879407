// Package config has the configuration for the aides command line tools
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the deployment environment the tools run in
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short and long spellings of an environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

const DefaultAPIURL = "https://aides-territoires.beta.gouv.fr/api/perimeters/"

// Config holds all application configuration
type Config struct {
	Env               Environment
	LogLevel          string
	LogDir            string        // Empty means console logging only
	LogRetentionWeeks int           // Number of weeks to keep log files
	MaxLogFileSize    int64         // Maximum log file size in bytes
	APIURL            string        // Perimeters endpoint
	APIToken          string        // Static bearer token, only needed to fetch
	PerimeterScale    string        // Value of the scale query parameter
	FetchRPS          float64       // Page requests per second, 0 for unlimited
	FetchTimeout      time.Duration // HTTP client timeout, 0 for none
	MetricsFile       string        // Prometheus textfile written at exit when set
}

// Load reads an optional .env file, then loads and validates configuration
// from environment variables
func Load() (*Config, error) {
	// A missing .env is the normal case outside of development
	_ = godotenv.Load()

	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Env:               env,
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogDir:            os.Getenv("LOG_DIR"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		APIURL:            getEnvWithDefault("AT_API_URL", DefaultAPIURL),
		APIToken:          os.Getenv("AT_API_TOKEN"),
		PerimeterScale:    getEnvWithDefault("PERIMETER_SCALE", "adhoc"),
		FetchRPS:          getFloatEnvWithDefault("FETCH_RPS", 2),
		FetchTimeout:      getDurationEnvWithDefault("FETCH_TIMEOUT", 5*time.Minute),
		MetricsFile:       os.Getenv("METRICS_FILE"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ValidateFetch checks the settings only the perimeter fetcher needs
func (c *Config) ValidateFetch() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return fmt.Errorf("AT_API_TOKEN is required to fetch perimeters")
	}
	if strings.TrimSpace(c.PerimeterScale) == "" {
		return fmt.Errorf("PERIMETER_SCALE cannot be empty")
	}
	return nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateAPIURL(cfg.APIURL); err != nil {
		return fmt.Errorf("invalid AT_API_URL: %w", err)
	}

	if err := validateFetchRPS(cfg.FetchRPS); err != nil {
		return fmt.Errorf("invalid FETCH_RPS: %w", err)
	}

	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("invalid FETCH_TIMEOUT: must not be negative, got: %s", cfg.FetchTimeout)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateAPIURL requires an absolute http(s) URL
func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("AT_API_URL must be a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("AT_API_URL must use http or https, got: %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("AT_API_URL must have a host, got: %s", raw)
	}

	return nil
}

// validateFetchRPS validates the FETCH_RPS environment variable
func validateFetchRPS(rps float64) error {
	if rps < 0 {
		return fmt.Errorf("FETCH_RPS must not be negative, got: %g", rps)
	}

	if rps > 100 {
		return fmt.Errorf("FETCH_RPS is too large (max 100), got: %g", rps)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnvWithDefault gets an environment variable as float64 with a default value
func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault gets an environment variable as a Go duration with a default value
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"AT_API_URL",
		"AT_API_TOKEN",
		"PERIMETER_SCALE",
		"FETCH_RPS",
		"FETCH_TIMEOUT",
		"METRICS_FILE",
	}
}
