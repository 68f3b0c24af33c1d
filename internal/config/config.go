// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server and bootstrap configuration
type ServerConfig struct {
	Port string
	// RoomsFile and MeetingsFile override the embedded seed data when set
	RoomsFile    string
	MeetingsFile string
	// Timezone is used to decide whether a requested slot lies in the future
	Timezone string
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// How long a reservation is kept once it has ended (0 keeps it forever)
	ReservationTTL time.Duration
}

// GetServerConfig loads server configuration from environment variables
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:         getEnv("PORT", "8080"),
		RoomsFile:    getEnv("ROOMS_FILE", ""),
		MeetingsFile: getEnv("MEETINGS_FILE", ""),
		Timezone:     getEnv("TIMEZONE", "Europe/Paris"),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_RESERVATION_TTL_HOURS", "0"))
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:        getEnvBool("REDIS_ENABLED", false),
		URI:            getEnv("REDIS_URI_MEETINGPLANNER", ""),
		Host:           getEnv("REDIS_HOST_MEETINGPLANNER", getEnv("REDIS_ADDRESS", "localhost")),
		Port:           getEnv("REDIS_PORT_MEETINGPLANNER", "6379"),
		Username:       getEnv("REDIS_USERNAME_MEETINGPLANNER", ""),
		Password:       getEnv("REDIS_PASSWORD_MEETINGPLANNER", getEnv("REDIS_PASSWORD", "")),
		DB:             db,
		KeyPrefix:      getEnv("REDIS_KEY_PREFIX", "meetingplanner:"),
		ReservationTTL: ttl,
	}
}

// Location resolves the configured timezone, falling back to UTC
func (c ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
