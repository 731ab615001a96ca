package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Filter encodings understood by the gateway.
const (
	FilterEncodingPath  = "path"
	FilterEncodingQuery = "query"
)

// Session store backends.
const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Env            string
	LogLevel       string
	APIBaseURL     string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	FilterEncoding string

	// Session persistence
	SessionStore  string
	SessionFile   string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Reference backend (cmd/clinicapi)
	Port               string
	ClinicAPISecret    string
	ClinicAPITokenTTL  time.Duration
	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		SearchDebounce: getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		FilterEncoding: normalizeChoice(getEnv("FILTER_ENCODING", FilterEncodingPath), FilterEncodingPath, FilterEncodingQuery),

		SessionStore:  normalizeChoice(getEnv("SESSION_STORE", SessionStoreFile), SessionStoreFile, SessionStoreRedis, SessionStoreMemory),
		SessionFile:   getEnv("SESSION_FILE", defaultSessionFile()),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		Port:               getEnv("PORT", "8080"),
		ClinicAPISecret:    getEnv("CLINIC_API_JWT_SECRET", "dev-secret"),
		ClinicAPITokenTTL:  getEnvAsDuration("CLINIC_API_TOKEN_TTL", time.Hour),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".clinic-session.json"
	}
	return filepath.Join(dir, "clinic-dashboard", "session.json")
}

// normalizeChoice lowercases value and falls back to the first allowed choice
// when it is not one of them.
func normalizeChoice(value string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
