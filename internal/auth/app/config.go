package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/pkg/jwtx"
)

type Config struct {
	Issuer   string   // Issuer claim (iss) for minted tokens (default: warden)
	Audience []string // Audience claims (aud) for minted tokens (optional)

	SigningKeyFile  string        // Path to the PEM RSA signing key; generated when absent (default: ./signing_key.pem)
	RSABits         int           // RSA key size for generated keys (default: 2048)
	AccessTokenTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 168h)

	RedisAddr     string // Token store address (default: localhost:6379)
	RedisPassword string // Optional
	RedisDB       int    // Optional

	DatabaseFile string // Path to the SQLite user directory file (default: ./warden.db)
	PepperFile   string // Path to the password hashing pepper file (default: ./pepper)

	KafkaBrokers []string // Event bus brokers; events go to the log when empty
	KafkaTopic   string   // Topic for domain events (default: warden.users)

	InternalClients []service.ServiceClient // Pre-shared service credentials

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	SecureCookies       bool          // Set the Secure flag on session cookies (default: true outside dev)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		Issuer:   getEnvOrDefault("WARDEN_ISSUER", "warden"),
		Audience: splitAndTrim(os.Getenv("WARDEN_AUDIENCE")),

		SigningKeyFile:  getEnvOrDefault("WARDEN_SIGNING_KEY_FILE", "signing_key.pem"),
		RSABits:         getEnvIntOrDefault("WARDEN_RSA_BITS", 0), // 0 means the key manager default
		AccessTokenTTL:  getEnvDurationOrDefault("WARDEN_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("WARDEN_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		DatabaseFile: getEnvOrDefault("WARDEN_DATABASE_FILE", "warden.db"),
		PepperFile:   getEnvOrDefault("WARDEN_PEPPER_FILE", "pepper"),

		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnvOrDefault("KAFKA_TOPIC", "warden.users"),

		InternalClients: parseInternalClients(os.Getenv("WARDEN_INTERNAL_CLIENTS")),

		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SecureCookies:       getEnvBoolOrDefault("WARDEN_SECURE_COOKIES", env != "dev"),
	}

	return cfg
}

// parseInternalClients parses "client_id:client_secret:service_name" triples
// separated by commas. Malformed entries are skipped.
func parseInternalClients(raw string) []service.ServiceClient {
	var clients []service.ServiceClient
	for _, entry := range splitAndTrim(raw) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			continue
		}
		clients = append(clients, service.ServiceClient{
			ClientID:     parts[0],
			ClientSecret: parts[1],
			ServiceName:  parts[2],
		})
	}
	return clients
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
