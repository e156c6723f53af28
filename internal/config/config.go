// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required variables are enforced by must()
// and missing values cause the process to exit; booking parameters have
// defaults so a development instance runs with only the DB settings.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret string // shared secret for verifying access tokens issued by the auth service

	TicketPriceCents uint32        // flat per-seat price in cents
	CancelCutoff     time.Duration // pre-showing window during which cancellation is refused

	AMQPURL string // broker address (optional, empty uses the queue package default)
}

// Load reads configuration values from environment variables and returns
// a Config.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		TicketPriceCents: uint32(intDefault("TICKET_PRICE_CENTS", 100000)),
		CancelCutoff:     durDefault("CANCEL_CUTOFF", 2*time.Hour),
		AMQPURL:          os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intDefault reads an integer environment variable, falling back to the
// default when unset.  An unparseable value is fatal rather than silently
// ignored: a wrong price must never boot.
func intDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// durDefault reads a duration environment variable (Go duration syntax,
// e.g. "2h"), falling back to the default when unset.
func durDefault(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}
