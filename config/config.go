// Package config loads and validates application configuration from
// environment variables. Loading collects every problem it finds and reports
// them together, so a misconfigured deployment fails once with the full list
// instead of one variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PoolConfig holds settings for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// SessionConfig holds settings for the cookie session layer.
type SessionConfig struct {
	// Secret signs session cookies. Rotating it invalidates all sessions.
	Secret string
	// TTL is recorded on each session as its expiry. It is stored as data
	// only; nothing currently terminates a session when it passes.
	TTL time.Duration
	// BcryptCost is the work factor for password hashing.
	BcryptCost int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	DB      *PoolConfig
	Session *SessionConfig
	Server  *ServerConfig
}

// getRequiredEnv reads a required variable, collecting an error when absent.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional integer variable with a default.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration reads an optional duration variable ("1h30m") with a default.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size inside sane bounds, collecting an error
// when the configured value had to be adjusted.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 1 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 1, clamping to 1", varName, size))
		return 1
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig builds an AppConfig from the environment. It returns a single
// aggregated error listing every missing or invalid variable.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	sessionSecret := getRequiredEnv("SESSION_SECRET", &errs)
	sessionTTL := getOptionalEnvDuration("SESSION_TTL", time.Hour, &errs)
	bcryptCost := getOptionalEnvInt("BCRYPT_COST", bcrypt.DefaultCost, &errs)
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST (%d) must be between %d and %d", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	sessionConfig := &SessionConfig{
		Secret:     sessionSecret,
		TTL:        sessionTTL,
		BcryptCost: bcryptCost,
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:      dbConfig,
		Session: sessionConfig,
		Server:  serverConfig,
	}, nil
}
