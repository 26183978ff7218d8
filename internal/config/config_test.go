package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", cfg.App.Symbol)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, 50, cfg.App.LotSize)
	assert.Equal(t, "09:15", cfg.Session.Open)
	assert.Equal(t, "09:45", cfg.Session.Close)
	assert.Equal(t, 2, cfg.Engine.MinWinningScore)
	assert.Equal(t, 25000.0, cfg.Engine.DailyRiskBudget)
	assert.Equal(t, 30, cfg.Signals.BufferCapacity)
	assert.Equal(t, 0.85, cfg.Signals.BackIVFallbackRatio)
	assert.Equal(t, 2.0, cfg.Signals.LiquidityMaxSpread)
	assert.Equal(t, 1.0015, cfg.Signals.BreakoutUpRatio)
	assert.Equal(t, 0.9985, cfg.Signals.BreakoutDownRatio)
	assert.Equal(t, 1.0, cfg.Engine.RiskFractions.Straddle)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileValuesOverrideDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  symbol: BANKNIFTY
  lot_size: 15
engine:
  daily_risk_budget: 40000
signals:
  buffer_capacity: 20
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BANKNIFTY", cfg.App.Symbol)
	assert.Equal(t, 15, cfg.App.LotSize)
	assert.Equal(t, 40000.0, cfg.Engine.DailyRiskBudget)
	assert.Equal(t, 20, cfg.Signals.BufferCapacity)
	// Untouched sections keep their defaults.
	assert.Equal(t, "09:15", cfg.Session.Open)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DAILY_RISK_BUDGET", "12345")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 12345.0, cfg.Engine.DailyRiskBudget)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.App.Timezone = "Not/AZone"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Session.Open = "quarter past nine"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Engine.DailyRiskBudget = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Signals.BufferCapacity = 1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Engine.RiskFractions.ORB = 1.5
	assert.Error(t, cfg.Validate())
}
