package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DM_RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "cb:", cfg.KeyPrefix)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.DmRateLimitWindow)
	assert.Equal(t, "@every 1h", cfg.ReconcileSchedule)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigin: "http://a.test, http://b.test,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
