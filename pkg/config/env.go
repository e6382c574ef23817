package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/nitropay-io/nitropay-go/pkg/logger"
)

const (
	// DefaultPort defines the default port for the merchant API server
	DefaultPort = "4000"

	// DefaultProviderAPIBase defines the default base URL of the payment provider API
	DefaultProviderAPIBase = "https://api.nitropay.io"

	// DefaultExpiresInMinutes defines the default intent expiry window
	DefaultExpiresInMinutes = 15

	// DefaultAllowedOrigin defines the checkout UI origin allowed by CORS
	DefaultAllowedOrigin = "http://localhost:5173"

	// DefaultRequestTimeout defines the per-request handler timeout
	DefaultRequestTimeout = 30 * time.Second
)

// GetEnvPort returns the merchant server port from environment variables
func GetEnvPort() (string, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return DefaultPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid PORT value: %s, must be a valid integer", port)
	}
	return port, nil
}

// GetEnvProviderAPIBase returns the provider API base URL from environment variables
func GetEnvProviderAPIBase() (string, error) {
	apiBase := os.Getenv("PROVIDER_API_BASE")
	if apiBase == "" {
		return DefaultProviderAPIBase, nil
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(apiBase); err != nil {
		return "", fmt.Errorf("invalid PROVIDER_API_BASE value: %s, must be a valid URL", apiBase)
	}
	return apiBase, nil
}

// GetEnvProviderPublicKey returns the public provider credential used for reference-data reads
func GetEnvProviderPublicKey() string {
	return os.Getenv("PROVIDER_API_PUBLIC_KEY")
}

// GetEnvProviderSecretKey returns the secret provider credential used for intent registration.
// It is held server-side only and never reaches a response body.
func GetEnvProviderSecretKey() string {
	return os.Getenv("PROVIDER_API_SECRET_KEY")
}

// GetEnvExpiresInMinutes returns the default intent expiry window from environment variables
func GetEnvExpiresInMinutes() (int, error) {
	expiresIn := os.Getenv("INTENT_EXPIRES_IN_MINUTES")
	if expiresIn == "" {
		return DefaultExpiresInMinutes, nil
	}

	minutes, err := strconv.Atoi(expiresIn)
	if err != nil {
		return 0, fmt.Errorf("invalid INTENT_EXPIRES_IN_MINUTES value: %s, must be an integer", expiresIn)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("INTENT_EXPIRES_IN_MINUTES must be greater than 0")
	}
	return minutes, nil
}

// GetEnvAllowedOrigin returns the CORS origin allowed to call the merchant API
func GetEnvAllowedOrigin() string {
	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		return DefaultAllowedOrigin
	}
	return origin
}

// GetEnvMetricsAPIKey returns the bearer key guarding the metrics endpoint, empty for no auth
func GetEnvMetricsAPIKey() string {
	return os.Getenv("METRICS_API_KEY")
}

// GetEnvRequestTimeout returns the handler timeout from environment variables
func GetEnvRequestTimeout() (time.Duration, error) {
	timeout := os.Getenv("REQUEST_TIMEOUT")
	if timeout == "" {
		return DefaultRequestTimeout, nil
	}

	parsed, err := time.ParseDuration(timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT value: %s, must be a valid duration string", timeout)
	}
	return parsed, nil
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return logger.InfoLevel, nil
	}

	switch level {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be 'debug', 'info', 'notice' or 'error'", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be 'true' or 'false'", coloring)
}
