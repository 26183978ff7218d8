package model

import "time"

// MarketSample is a single underlying price/volume observation taken at
// the engine's sampling cadence. Immutable once created.
type MarketSample struct {
	Spot      float64
	Timestamp time.Time
	Volume    uint64
}
