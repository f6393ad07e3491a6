package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Venue source kinds accepted by VENUE_SOURCE.
const (
	SourceHTTP  = "http"
	SourceMySQL = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	LogLevel  string // debug | info | warn | error
	LogFormat string // text | json

	VenueSource   string        // http | mysql
	VenueURL      string        // venue document URL for the http source
	VenueID       string        // venue row id for the mysql source
	VenueCacheTTL time.Duration // read-through cache lifetime; 0 disables

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	SessionSecret string        // secret used to sign session cookies
	SessionTTL    time.Duration // idle lifetime of a session and its selection
	SelectionKey  string        // name of the persisted selection entry
	StoragePrefix string        // Redis key prefix for selection entries

	AMQPURL string // RabbitMQ URL; empty disables checkout events
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database settings
// are only required for the mysql source.
func Load() Config {
	c := Config{
		Env:       envStr("APP_ENV", "dev"),
		Port:      envStr("APP_PORT", "8080"),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", ""),

		VenueSource:   strings.ToLower(envStr("VENUE_SOURCE", SourceHTTP)),
		VenueCacheTTL: envDur("VENUE_CACHE_TTL", 5*time.Minute),

		SessionSecret: must("SESSION_SECRET"),
		SessionTTL:    envDur("SESSION_TTL", 24*time.Hour),
		SelectionKey:  envStr("SELECTION_KEY", "seatSelections"),
		StoragePrefix: envStr("STORAGE_PREFIX", "seating"),

		AMQPURL: envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
		if c.Env == "dev" {
			c.LogFormat = "text"
		}
	}

	switch c.VenueSource {
	case SourceHTTP:
		c.VenueURL = must("VENUE_URL")
	case SourceMySQL:
		c.DBUser = must("DB_USER")
		c.DBPass = os.Getenv("DB_PASS") // empty allowed
		c.DBHost = must("DB_HOST")
		c.DBPort = must("DB_PORT")
		c.DBName = must("DB_NAME")
		c.VenueID = must("VENUE_ID")
	default:
		log.Fatalf("invalid VENUE_SOURCE %q (want http or mysql)", c.VenueSource)
	}
	return c
}

// LoadDB reads only the DB_* variables, for tools that do not serve HTTP.
func LoadDB() Config {
	return Config{
		Env:    envStr("APP_ENV", "dev"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),
	}
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
