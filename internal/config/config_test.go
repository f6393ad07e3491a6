package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadHTTPSourceDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("VENUE_URL", "http://example.test/venue.json")
	t.Setenv("VENUE_SOURCE", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_FORMAT", "")

	c := Load()
	assert.Equal(t, SourceHTTP, c.VenueSource)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "seatSelections", c.SelectionKey)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.False(t, c.SecureCookies())
}

func TestLoadMySQLSource(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("VENUE_SOURCE", "MySQL")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "seating")
	t.Setenv("VENUE_ID", "v1")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("RABBITMQ_URL", "")

	c := Load()
	assert.Equal(t, SourceMySQL, c.VenueSource)
	assert.Equal(t, "v1", c.VenueID)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 90*time.Minute, c.SessionTTL)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", c.AMQPURL)
	assert.True(t, c.SecureCookies())
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 10*time.Second, c.TTL)
	assert.Equal(t, "session", c.KeyStrategy)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "bad")
	assert.False(t, envBool("X_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, time.Second, envDur("X_DUR", time.Second))
}

func TestLoadRedisConfigHostPort(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "1")
	rc := LoadRedisConfig()
	assert.Equal(t, "cache:6380", rc.Addr)
	assert.True(t, rc.TLS)
}
