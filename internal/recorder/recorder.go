package recorder

import (
	"time"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// TickSnapshot holds everything the engine derived on one tick. The
// recommendation is nil on NoTrade ticks; the snapshot is still recorded so
// a session can be replayed.
type TickSnapshot struct {
	At             time.Time
	Symbol         string
	Signals        *model.Signals
	Scores         model.StrategyScoreSet
	Recommendation *model.TradeRecommendation
}

// Recorder persists per-tick engine output for audit and replay.
type Recorder interface {
	RecordTick(snap *TickSnapshot) error
	RecordRecommendation(rec *model.TradeRecommendation) error
	Close() error
}
