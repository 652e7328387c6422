package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/database"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, database.SQLite, cfg.DB.Driver)
	assert.Equal(t, "fyyur.db", cfg.DB.Path)
	assert.Equal(t, "UTC", cfg.DisplayTZ)
	assert.Empty(t, cfg.AMQPURL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, "ip_route", cfg.RateLimit.KeyStrategy)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "fyyur")
	t.Setenv("DISPLAY_TZ", "America/New_York")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2m")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillTokens)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.TTL)

	opts := cfg.DB.Options()
	assert.Equal(t, "5432", opts.Port)
	assert.Equal(t, "fyyur", opts.User)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad int", "RATE_LIMIT_CAPACITY", "many"},
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"bad zone", "DISPLAY_TZ", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestRateLimitNormalize_TTLFloor(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: time.Minute, TTL: time.Second}
	c.normalize()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, 5*time.Minute, c.TTL)
}

func TestRedisConfig_Address(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Addr: "x:1", Host: "cache", Port: "6380"}.Address())
	assert.Equal(t, "x:1", RedisConfig{Addr: "x:1", Host: "cache"}.Address())
}

func TestNewRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), RedisConfig{}))
}
