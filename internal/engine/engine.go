package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ashish-frozo/tradingbot/internal/feed"
	"github.com/ashish-frozo/tradingbot/internal/model"
	"github.com/ashish-frozo/tradingbot/internal/publisher"
	"github.com/ashish-frozo/tradingbot/internal/recorder"
	"github.com/ashish-frozo/tradingbot/internal/sampler"
	"github.com/ashish-frozo/tradingbot/internal/session"
	"github.com/ashish-frozo/tradingbot/internal/signals"
	"github.com/ashish-frozo/tradingbot/internal/strategy"
)

// Engine runs the strategy selection loop: once per cadence inside the
// session window it samples the tick feed, computes signals, scores the
// archetypes, and emits at most one recommendation.
type Engine struct {
	symbol      string
	clock       *session.Clock
	buffer      *sampler.Ring
	ticks       feed.TickSource
	chain       feed.ChainSource
	computer    *signals.Computer
	constructor *strategy.Constructor
	recorder    recorder.Recorder
	publishers  []publisher.Publisher

	cron *cron.Cron
	ctx  context.Context
	log  zerolog.Logger

	// tickMu guarantees ticks run to completion one at a time.
	tickMu sync.Mutex
	now    func() time.Time

	wasActive   bool
	tickCount   int
	recCount    int
	lastSignals *model.Signals
}

// Options wires the engine's collaborators.
type Options struct {
	Symbol      string
	Clock       *session.Clock
	Buffer      *sampler.Ring
	Ticks       feed.TickSource
	Chain       feed.ChainSource
	Computer    *signals.Computer
	Constructor *strategy.Constructor
	Recorder    recorder.Recorder
	Publishers  []publisher.Publisher
}

// New creates an Engine. The recorder defaults to noop when nil.
func New(ctx context.Context, opts Options) *Engine {
	rec := opts.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Engine{
		symbol:      opts.Symbol,
		clock:       opts.Clock,
		buffer:      opts.Buffer,
		ticks:       opts.Ticks,
		chain:       opts.Chain,
		computer:    opts.Computer,
		constructor: opts.Constructor,
		recorder:    rec,
		publishers:  opts.Publishers,
		cron:        cron.New(cron.WithSeconds()),
		ctx:         ctx,
		log:         log.With().Str("component", "engine").Str("symbol", opts.Symbol).Logger(),
		now:         time.Now,
	}
}

// Start registers the tick schedule and starts the cron loop.
func (e *Engine) Start(tickCron string) error {
	if _, err := e.cron.AddFunc(tickCron, e.Tick); err != nil {
		return fmt.Errorf("register tick schedule: %w", err)
	}
	e.cron.Start()
	e.log.Info().Str("schedule", tickCron).Msg("engine started")
	return nil
}

// Stop halts the cron loop, letting any in-flight tick finish.
func (e *Engine) Stop() {
	stopCtx := e.cron.Stop()
	<-stopCtx.Done()
	e.log.Info().Msg("engine stopped")
}

// Tick is one synchronous orchestration step. Outside the session window it
// only handles the open/close transitions; a tick that cannot produce
// signals skips quietly rather than raising.
func (e *Engine) Tick() {
	if !e.tickMu.TryLock() {
		e.log.Warn().Msg("previous tick still running, skipping")
		return
	}
	defer e.tickMu.Unlock()

	now := e.now()
	if !e.clock.IsActive(now) {
		if e.wasActive {
			e.sessionClose()
		}
		return
	}
	if !e.wasActive {
		e.sessionOpen()
	}

	sample, ok := e.ticks.Latest()
	if !ok {
		e.log.Debug().Msg("no market tick yet, skipping")
		return
	}
	e.buffer.Append(sample)
	e.tickCount++

	snap, err := e.chain.Snapshot(e.ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("chain snapshot unavailable, skipping tick")
		return
	}

	sig, err := e.computer.Compute(e.buffer.Samples(), snap)
	if err != nil {
		if errors.Is(err, signals.ErrInsufficientData) {
			e.log.Debug().Int("samples", e.buffer.Len()).Msg("insufficient data, skipping tick")
		} else {
			e.log.Error().Err(err).Msg("signal computation failed")
		}
		return
	}
	e.lastSignals = sig

	scores := strategy.Score(sig)
	rec := e.constructor.Select(scores, sig, snap)
	if rec != nil {
		rec.ID = uuid.NewString()
		rec.Symbol = e.symbol
		rec.GeneratedAt = now
		rec.WindowRemainingSec = int(e.clock.TimeRemaining(now).Seconds())
		e.recCount++
		e.publish(rec)
	}

	if err := e.recorder.RecordTick(&recorder.TickSnapshot{
		At:             now,
		Symbol:         e.symbol,
		Signals:        sig,
		Scores:         scores,
		Recommendation: rec,
	}); err != nil {
		e.log.Error().Err(err).Msg("record tick")
	}
	if rec != nil {
		if err := e.recorder.RecordRecommendation(rec); err != nil {
			e.log.Error().Err(err).Msg("record recommendation")
		}
	}

	e.log.Info().
		Float64("spot", sig.CurrentSpot).
		Float64("or_width_pct", sig.OpeningRangeWidthPct).
		Float64("iv_ratio", sig.FrontBackIVRatio).
		Int("max_score", scores.Max()).
		Bool("trade", rec != nil).
		Dur("window_remaining", e.clock.TimeRemaining(now)).
		Msg("tick complete")
}

func (e *Engine) publish(rec *model.TradeRecommendation) {
	e.log.Info().
		Str("id", rec.ID).
		Str("strategy", rec.StrategyName).
		Int("lots", rec.SuggestedLots).
		Msg("recommendation emitted")
	for _, p := range e.publishers {
		if err := p.Publish(e.ctx, rec); err != nil {
			e.log.Error().Err(err).Str("publisher", p.Name()).Msg("publish failed")
		}
	}
}

func (e *Engine) sessionOpen() {
	e.buffer.Reset()
	e.tickCount, e.recCount = 0, 0
	e.lastSignals = nil
	e.wasActive = true
	e.log.Info().Msg("session window opened, sampler reset")
}

func (e *Engine) sessionClose() {
	e.wasActive = false
	e.log.Info().
		Int("ticks", e.tickCount).
		Int("recommendations", e.recCount).
		Msg("session window closed")

	summary := publisher.FormatSessionSummary(e.symbol, e.tickCount, e.recCount, e.lastSignals)
	for _, p := range e.publishers {
		tg, ok := p.(*publisher.TelegramPublisher)
		if !ok {
			continue
		}
		if err := tg.SendWithRetry(e.ctx, summary, tg.Retries); err != nil {
			e.log.Error().Err(err).Msg("session summary send failed")
		}
	}
}
