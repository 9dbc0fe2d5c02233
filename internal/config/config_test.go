package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskplanner/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "PLAN_START_DATE", "TX_RETRIES", "AUTO_MIGRATE", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PLAN_START_DATE", "2025-08-25")

	cfg := config.Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), cfg.PlanStartDate)
	assert.Equal(t, 3, cfg.TxRetries)
	assert.True(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/plan.db")
	t.Setenv("PLAN_START_DATE", "2026-01-05")
	t.Setenv("TX_RETRIES", "7")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg := config.Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/plan.db", cfg.SQLitePath)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), cfg.PlanStartDate)
	assert.Equal(t, 7, cfg.TxRetries)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PLAN_START_DATE", "next monday")
	t.Setenv("TX_RETRIES", "many")

	cfg := config.Load()

	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), cfg.PlanStartDate)
	assert.Equal(t, 3, cfg.TxRetries)
}
