package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Default values for the serve command.
const (
	// DefaultHTTPAddr is the default address for the main HTTP server.
	DefaultHTTPAddr = ":3000"

	// DefaultMetricsAddr is the default address for the metrics server.
	DefaultMetricsAddr = ":9090"
)

// GoogleConfig holds the OAuth credentials for the Google Calendar upstream.
type GoogleConfig struct {
	// ClientID is the OAuth2 client ID issued by the Google Cloud console.
	ClientID string

	// ClientSecret is the OAuth2 client secret.
	ClientSecret string

	// RedirectURI is the registered OAuth2 callback URL.
	RedirectURI string
}

// Complete reports whether all three OAuth credential values are set.
// Incomplete credentials fail the specific operation that needs them,
// not the process.
func (g GoogleConfig) Complete() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURI != ""
}

// WeatherConfig holds configuration for the OpenWeather upstream.
type WeatherConfig struct {
	// APIKey is the OpenWeather API key. Absence is reported as a
	// server misconfiguration at request time.
	APIKey string
}

// Config is the validated settings object handed to the server core.
type Config struct {
	Google  GoogleConfig
	Weather WeatherConfig

	// HTTPAddr is the listen address for the main HTTP server.
	HTTPAddr string

	// MetricsAddr is the listen address for the metrics server.
	MetricsAddr string

	// MetricsEnabled determines whether the metrics server is started.
	MetricsEnabled bool

	// TokenFile is the path of the durable credential slot.
	TokenFile string

	// Debug enables debug logging.
	Debug bool
}

// FromEnv returns a Config populated from environment variables.
// Flag values override these in cmd/serve.go.
func FromEnv() Config {
	addr := DefaultHTTPAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return Config{
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		},
		Weather: WeatherConfig{
			APIKey: os.Getenv("OPENWEATHER_API_KEY"),
		},
		HTTPAddr:       addr,
		MetricsAddr:    GetEnvOrDefault("METRICS_ADDR", DefaultMetricsAddr),
		MetricsEnabled: GetEnvBoolOrDefault("METRICS_ENABLED", true),
		TokenFile:      GetEnvOrDefault("DAYBRIEF_TOKEN_FILE", DefaultTokenFile()),
	}
}

// DefaultTokenFile returns the default path of the durable credential
// slot, under the user cache directory.
func DefaultTokenFile() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	return filepath.Join(cacheDir, "daybrief", "tokens.json")
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBoolOrDefault returns the boolean value of an environment variable or a default value.
func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
