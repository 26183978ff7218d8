package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ashish-frozo/tradingbot/internal/config"
	"github.com/ashish-frozo/tradingbot/internal/engine"
	"github.com/ashish-frozo/tradingbot/internal/feed"
	"github.com/ashish-frozo/tradingbot/internal/logging"
	"github.com/ashish-frozo/tradingbot/internal/model"
	"github.com/ashish-frozo/tradingbot/internal/publisher"
	"github.com/ashish-frozo/tradingbot/internal/recorder"
	"github.com/ashish-frozo/tradingbot/internal/sampler"
	"github.com/ashish-frozo/tradingbot/internal/session"
	"github.com/ashish-frozo/tradingbot/internal/signals"
	"github.com/ashish-frozo/tradingbot/internal/strategy"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("symbol", cfg.App.Symbol).Msg("strategy selection engine starting")

	// Session clock
	clock, err := session.NewClock(cfg.App.Timezone, cfg.Session.Open, cfg.Session.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("init session clock")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Feeds
	var ticks feed.TickSource
	if cfg.Feeds.TickWSURL != "" {
		ws := feed.NewWSTickFeed(cfg.Feeds.TickWSURL)
		go ws.Run(ctx)
		ticks = ws
	} else {
		log.Warn().Msg("no tick feed configured, using mock source")
		ticks = &feed.MockTickSource{}
	}

	var chain feed.ChainSource
	if cfg.Feeds.ChainBaseURL != "" {
		chain = feed.NewChainFetcher(cfg.Feeds.ChainBaseURL, cfg.Feeds.ChainAPIKey, cfg.App.Symbol)
	} else {
		log.Warn().Msg("no chain feed configured, using mock source")
		chain = &feed.MockChainSource{}
	}

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Publishers
	var pubs []publisher.Publisher
	if cfg.Redis.Addr != "" {
		rp := publisher.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Channel, cfg.Redis.LatestKey)
		defer rp.Close()
		pubs = append(pubs, rp)
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		pubs = append(pubs, publisher.NewTelegramPublisher(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}

	// Engine
	eng := engine.New(ctx, engine.Options{
		Symbol:   cfg.App.Symbol,
		Clock:    clock,
		Buffer:   sampler.New(cfg.Signals.BufferCapacity),
		Ticks:    ticks,
		Chain:    chain,
		Computer: signals.NewComputer(signals.Params{
			BackIVFallbackRatio: cfg.Signals.BackIVFallbackRatio,
			LiquidityMaxSpread:  cfg.Signals.LiquidityMaxSpread,
			BreakoutUpRatio:     cfg.Signals.BreakoutUpRatio,
			BreakoutDownRatio:   cfg.Signals.BreakoutDownRatio,
			VolumeSurgeRatio:    cfg.Signals.VolumeSurgeRatio,
			RecentVolumeWindow:  cfg.Signals.RecentVolumeWindow,
		}),
		Constructor: strategy.NewConstructor(strategy.Config{
			MinWinningScore:    cfg.Engine.MinWinningScore,
			DailyRiskBudget:    cfg.Engine.DailyRiskBudget,
			LotSize:            cfg.App.LotSize,
			LiquidityMaxSpread: cfg.Signals.LiquidityMaxSpread,
			RiskFractions: map[model.Archetype]float64{
				model.ArchetypeIronFly:  cfg.Engine.RiskFractions.IronFly,
				model.ArchetypeORB:      cfg.Engine.RiskFractions.ORB,
				model.ArchetypeCalendar: cfg.Engine.RiskFractions.Calendar,
				model.ArchetypeStraddle: cfg.Engine.RiskFractions.Straddle,
			},
		}),
		Recorder:   rec,
		Publishers: pubs,
	})
	if err := eng.Start(cfg.Engine.TickCron); err != nil {
		log.Fatal().Err(err).Msg("start engine")
	}
	defer eng.Stop()

	log.Info().
		Str("window", cfg.Session.Open+"-"+cfg.Session.Close).
		Str("timezone", cfg.App.Timezone).
		Msg("engine is running, press Ctrl+C to stop")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}
