package feed

import (
	"context"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// TickSource hands out the latest completed underlying tick. The engine
// reads at its own cadence and never blocks waiting for a fresher one.
type TickSource interface {
	Latest() (model.MarketSample, bool)
	Name() string
}

// ChainSource fetches a wholesale option-chain snapshot.
type ChainSource interface {
	Snapshot(ctx context.Context) (*model.ChainSnapshot, error)
	Name() string
}
