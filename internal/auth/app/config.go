package app

import (
	"os"
	"strconv"
	"time"

	"github.com/lockboxlabs/gatekey/pkg/jwtx"
)

type Config struct {
	SecretKey string // Required: HS256 signing secret (min 32 bytes)
	Issuer    string // Optional: issuer claim for tokens (default: gatekey)

	AccessTokenLifetime  time.Duration // Optional: access token TTL in minutes (default: 60)
	RefreshTokenLifetime time.Duration // Optional: refresh token TTL in days (default: 7)
	RotateRefreshTokens  bool          // Optional: mint a new refresh token on every refresh (default: true)
	BlacklistAfterRotate bool          // Optional: blacklist the consumed token when rotating (default: true)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./gatekey.db)
	RedisAddr            string        // Optional: redis address for the blacklist cache; empty disables it
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		SecretKey: os.Getenv("SECRET_KEY"),
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "gatekey"),

		AccessTokenLifetime: getEnvMinutesOrDefault(
			"JWT_ACCESS_TOKEN_LIFETIME",
			jwtx.DefaultAccessTokenTTL,
		),
		RefreshTokenLifetime: getEnvDaysOrDefault(
			"JWT_REFRESH_TOKEN_LIFETIME",
			jwtx.DefaultRefreshTokenTTL,
		),
		RotateRefreshTokens:  getEnvBoolOrDefault("JWT_ROTATE_REFRESH_TOKENS", true),
		BlacklistAfterRotate: getEnvBoolOrDefault("JWT_BLACKLIST_AFTER_ROTATION", true),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "gatekey.db"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
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

// getEnvMinutesOrDefault reads an integer number of minutes.
func getEnvMinutesOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvDaysOrDefault reads an integer number of days.
func getEnvDaysOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if days, err := strconv.Atoi(value); err == nil && days > 0 {
		return time.Duration(days) * 24 * time.Hour
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
