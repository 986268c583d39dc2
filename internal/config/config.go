package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds the core runtime configuration. Each field corresponds to an
// environment variable. Policy durations for the session lifecycle live in
// the nested Auth struct so they can be overridden consistently in tests.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	RestaurantID string // restaurant served by this deployment
	BcryptCost   int    // bcrypt cost for password hashing
	Auth         AuthConfig
}

// AuthConfig carries every tunable of the admin session lifecycle. The
// values are configuration, not algorithm constants: the session manager
// reads them but never hard-codes them.
type AuthConfig struct {
	JWTSecret         string        // secret used to sign auth grants
	SessionTTL        time.Duration // hard session expiry offset from login
	MaxLoginAttempts  int           // consecutive failures before lockout
	AttemptWindow     time.Duration // sliding window over failed attempts
	LockoutDuration   time.Duration // how long a locked identifier stays locked
	InactivityTimeout time.Duration // idle time after which a session is dropped
	CheckInterval     time.Duration // cadence of the background session sweep
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message; policy values fall back to
// documented defaults.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		RestaurantID: must("RESTAURANT_ID"),
		BcryptCost:   envInt("BCRYPT_COST", 12),
		Auth: AuthConfig{
			JWTSecret:         must("JWT_SECRET"),
			SessionTTL:        envDur("SESSION_TTL", 24*time.Hour),
			MaxLoginAttempts:  envInt("LOGIN_MAX_ATTEMPTS", 5),
			AttemptWindow:     envDur("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
			LockoutDuration:   envDur("LOGIN_LOCKOUT", 15*time.Minute),
			InactivityTimeout: envDur("INACTIVITY_TIMEOUT", 30*time.Minute),
			CheckInterval:     envDur("SESSION_CHECK_INTERVAL", time.Minute),
		},
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envStr returns the variable's value or the given default when unset.
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt parses an integer variable, returning the default on absence or
// malformed input.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// envDur parses a Go duration string (e.g. "30m", "24h").
func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

// envBool accepts the usual truthy/falsy spellings.
func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}
