package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Every threshold the engine
// uses is set here so nothing in the decision path is hard-coded.
type Config struct {
	App struct {
		Symbol   string `yaml:"symbol"`
		Timezone string `yaml:"timezone"`
		LotSize  int    `yaml:"lot_size"`
	} `yaml:"app"`
	Session struct {
		Open  string `yaml:"open"`  // HH:MM exchange-local
		Close string `yaml:"close"` // HH:MM exchange-local
	} `yaml:"session"`
	Engine struct {
		TickCron        string  `yaml:"tick_cron"`
		MinWinningScore int     `yaml:"min_winning_score"`
		DailyRiskBudget float64 `yaml:"daily_risk_budget"`
		RiskFractions   struct {
			IronFly  float64 `yaml:"iron_fly"`
			ORB      float64 `yaml:"orb"`
			Calendar float64 `yaml:"calendar"`
			Straddle float64 `yaml:"straddle"`
		} `yaml:"risk_fractions"`
	} `yaml:"engine"`
	Signals struct {
		BufferCapacity      int     `yaml:"buffer_capacity"`
		BackIVFallbackRatio float64 `yaml:"back_iv_fallback_ratio"`
		LiquidityMaxSpread  float64 `yaml:"liquidity_max_spread"`
		BreakoutUpRatio     float64 `yaml:"breakout_up_ratio"`
		BreakoutDownRatio   float64 `yaml:"breakout_down_ratio"`
		VolumeSurgeRatio    float64 `yaml:"volume_surge_ratio"`
		RecentVolumeWindow  int     `yaml:"recent_volume_window"`
	} `yaml:"signals"`
	Feeds struct {
		TickWSURL    string `yaml:"tick_ws_url"`
		ChainBaseURL string `yaml:"chain_base_url"`
		ChainAPIKey  string `yaml:"chain_api_key"`
	} `yaml:"feeds"`
	Redis struct {
		Addr      string `yaml:"addr"`
		DB        int    `yaml:"db"`
		Channel   string `yaml:"channel"`
		LatestKey string `yaml:"latest_key"`
	} `yaml:"redis"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TICK_WS_URL"); v != "" {
		cfg.Feeds.TickWSURL = v
	}
	if v := os.Getenv("CHAIN_BASE_URL"); v != "" {
		cfg.Feeds.ChainBaseURL = v
	}
	if v := os.Getenv("CHAIN_API_KEY"); v != "" {
		cfg.Feeds.ChainAPIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DAILY_RISK_BUDGET"); v != "" {
		var budget float64
		if _, err := fmt.Sscanf(v, "%f", &budget); err == nil {
			cfg.Engine.DailyRiskBudget = budget
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Symbol == "" {
		c.App.Symbol = "NIFTY"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "Asia/Kolkata"
	}
	if c.App.LotSize == 0 {
		c.App.LotSize = 50
	}
	if c.Session.Open == "" {
		c.Session.Open = "09:15"
	}
	if c.Session.Close == "" {
		c.Session.Close = "09:45"
	}
	if c.Engine.TickCron == "" {
		c.Engine.TickCron = "0 * * * * *" // every minute, on the minute
	}
	if c.Engine.MinWinningScore == 0 {
		c.Engine.MinWinningScore = 2
	}
	if c.Engine.DailyRiskBudget == 0 {
		c.Engine.DailyRiskBudget = 25000
	}
	if c.Engine.RiskFractions.IronFly == 0 {
		c.Engine.RiskFractions.IronFly = 0.5
	}
	if c.Engine.RiskFractions.ORB == 0 {
		c.Engine.RiskFractions.ORB = 0.3
	}
	if c.Engine.RiskFractions.Calendar == 0 {
		c.Engine.RiskFractions.Calendar = 0.5
	}
	if c.Engine.RiskFractions.Straddle == 0 {
		c.Engine.RiskFractions.Straddle = 1.0
	}
	if c.Signals.BufferCapacity == 0 {
		c.Signals.BufferCapacity = 30
	}
	if c.Signals.BackIVFallbackRatio == 0 {
		c.Signals.BackIVFallbackRatio = 0.85
	}
	if c.Signals.LiquidityMaxSpread == 0 {
		c.Signals.LiquidityMaxSpread = 2.0
	}
	if c.Signals.BreakoutUpRatio == 0 {
		c.Signals.BreakoutUpRatio = 1.0015
	}
	if c.Signals.BreakoutDownRatio == 0 {
		c.Signals.BreakoutDownRatio = 0.9985
	}
	if c.Signals.VolumeSurgeRatio == 0 {
		c.Signals.VolumeSurgeRatio = 2.0
	}
	if c.Signals.RecentVolumeWindow == 0 {
		c.Signals.RecentVolumeWindow = 5
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "strategy:recommendations"
	}
	if c.Redis.LatestKey == "" {
		c.Redis.LatestKey = "strategy:latest"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are coherent.
func (c *Config) Validate() error {
	if c.App.Symbol == "" {
		return fmt.Errorf("app.symbol is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	for name, v := range map[string]string{"session.open": c.Session.Open, "session.close": c.Session.Close} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Engine.DailyRiskBudget <= 0 {
		return fmt.Errorf("engine.daily_risk_budget must be positive")
	}
	if c.Signals.BufferCapacity < 2 {
		return fmt.Errorf("signals.buffer_capacity must be at least 2")
	}
	for name, f := range map[string]float64{
		"iron_fly": c.Engine.RiskFractions.IronFly,
		"orb":      c.Engine.RiskFractions.ORB,
		"calendar": c.Engine.RiskFractions.Calendar,
		"straddle": c.Engine.RiskFractions.Straddle,
	} {
		if f <= 0 || f > 1 {
			return fmt.Errorf("engine.risk_fractions.%s must be in (0,1]", name)
		}
	}
	return nil
}
