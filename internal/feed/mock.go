package feed

import (
	"context"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// MockTickSource returns controllable fixed ticks for development and tests.
type MockTickSource struct {
	Sample model.MarketSample
	Ready  bool
}

func (m *MockTickSource) Name() string { return "mock-ticks" }

func (m *MockTickSource) Latest() (model.MarketSample, bool) {
	return m.Sample, m.Ready
}

// MockChainSource serves a fixed snapshot, or an error when Err is set.
type MockChainSource struct {
	Snap *model.ChainSnapshot
	Err  error
}

func (m *MockChainSource) Name() string { return "mock-chain" }

func (m *MockChainSource) Snapshot(_ context.Context) (*model.ChainSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snap, nil
}
