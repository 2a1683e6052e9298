package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflowhq/apptkit/pkg/config"
	"github.com/medflowhq/apptkit/pkg/logger"
)

func TestAppConfigDefaults(t *testing.T) {
	config.Reset()
	t.Setenv("PG_CONN_URL", "postgres://localhost:5432/apptkit")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, logger.FormatJSON, cfg.LogFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "91", cfg.SMSCountryPrefix)
	assert.Empty(t, cfg.SMSTemplateID)

	assert.Equal(t, "postgres://localhost:5432/apptkit", cfg.PG.ConnectionString)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnectionURL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, time.Hour+15*time.Minute, cfg.Reminder.Lead)
	assert.Equal(t, 30*time.Second, cfg.Reminder.PollInterval)
}
