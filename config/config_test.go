package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DATABASE_DRIVER", "sqlite")

	cfg := load(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:  Database{Driver: "postgres"},
		Redis:     Redis{Enabled: true},
		Tracing:   Tracing{SampleRatio: 2},
		RateLimit: RateLimit{Burst: -1},
	}

	err := cfg.Validate()

	require.Error(t, err)
	for _, want := range []string{"SERVER_PORT", "DATABASE_HOST", "REDIS_TTL", "TRACING_SAMPLE_RATIO", "rate limit"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg.Database.Driver = "mysql"
	assert.Contains(t, cfg.Validate().Error(), "unsupported DATABASE_DRIVER")
}
