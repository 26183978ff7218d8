package model

import (
	"math"
	"time"
)

// OptionLeg holds the quote for one side (call or put) of a chain row.
// Delta convention: calls in [0,1], puts in [-1,0].
type OptionLeg struct {
	LTP          float64
	Bid          float64
	Ask          float64
	Volume       uint64
	OpenInterest uint64
	ImpliedVol   float64
	Delta        float64
}

// Spread returns the quoted bid/ask width of the leg.
func (l OptionLeg) Spread() float64 {
	return l.Ask - l.Bid
}

// OptionChainRow pairs the call and put quotes at one strike.
type OptionChainRow struct {
	Strike float64
	Call   OptionLeg
	Put    OptionLeg
}

// ChainSnapshot is a point-in-time option chain: strikes unique and sorted
// ascending, refreshed wholesale on each fetch. BackIV, when positive, is the
// ATM implied vol of a longer-dated expiry supplied by the feed.
type ChainSnapshot struct {
	Symbol    string
	FetchedAt time.Time
	Rows      []OptionChainRow
	BackIV    float64
}

// Empty reports whether the snapshot carries no rows.
func (s *ChainSnapshot) Empty() bool {
	return s == nil || len(s.Rows) == 0
}

// ATMRow returns the row whose strike is closest to spot. Ties on equal
// distance keep the first row seen. Returns nil for an empty snapshot.
func (s *ChainSnapshot) ATMRow(spot float64) *OptionChainRow {
	if s.Empty() {
		return nil
	}
	best := 0
	bestDist := math.Abs(s.Rows[0].Strike - spot)
	for i := 1; i < len(s.Rows); i++ {
		if d := math.Abs(s.Rows[i].Strike - spot); d < bestDist {
			best, bestDist = i, d
		}
	}
	return &s.Rows[best]
}

// NearestStrikeRow returns the row whose strike is closest to target,
// first-seen tie-break. Returns nil for an empty snapshot.
func (s *ChainSnapshot) NearestStrikeRow(target float64) *OptionChainRow {
	return s.ATMRow(target)
}
