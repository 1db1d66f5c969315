package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "learntrack", cfg.MongoDatabase)
	assert.Equal(t, "progress-events", cfg.PubSubProgressTopic)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.False(t, cfg.GradingPartialCredit)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestEventsEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.EventsEnabled())

	cfg.GCPProjectID = "demo-project"
	assert.True(t, cfg.EventsEnabled())
}
