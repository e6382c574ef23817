package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/nitropay-io/nitropay-go/pkg/logger"
)

// Config holds the configuration for the merchant service
type Config struct {
	Port             string
	ProviderAPIBase  string
	ProviderPublic   string
	ProviderSecret   string
	ExpiresInMinutes int
	AllowedOrigin    string
	MetricsAPIKey    string
	RequestTimeout   time.Duration
	LoggerConfig     LoggerConfig
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	port, err := GetEnvPort()
	if err != nil {
		return nil, err
	}

	apiBase, err := GetEnvProviderAPIBase()
	if err != nil {
		return nil, err
	}

	expiresIn, err := GetEnvExpiresInMinutes()
	if err != nil {
		return nil, err
	}

	requestTimeout, err := GetEnvRequestTimeout()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             port,
		ProviderAPIBase:  apiBase,
		ProviderPublic:   GetEnvProviderPublicKey(),
		ProviderSecret:   GetEnvProviderSecretKey(),
		ExpiresInMinutes: expiresIn,
		AllowedOrigin:    GetEnvAllowedOrigin(),
		MetricsAPIKey:    GetEnvMetricsAPIKey(),
		RequestTimeout:   requestTimeout,
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.ProviderSecret == "" {
		return fmt.Errorf("PROVIDER_API_SECRET_KEY environment variable is required")
	}
	return nil
}
