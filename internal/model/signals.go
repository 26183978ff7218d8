package model

// BreakoutDirection labels which side of the opening range broke.
type BreakoutDirection string

const (
	BreakoutNone BreakoutDirection = "NONE"
	BreakoutUp   BreakoutDirection = "UP"
	BreakoutDown BreakoutDirection = "DOWN"
)

// Breakout is the volume-confirmed opening-range breakout state.
type Breakout struct {
	Has       bool
	Direction BreakoutDirection
}

// Signals holds all market-structure signals derived from the sample buffer
// and the chain snapshot. Recomputed fresh every tick, never mutated.
type Signals struct {
	OpeningRangeWidthPct float64
	ExpectedMovePct      float64
	FrontBackIVRatio     float64
	RiskReversal25Delta  float64
	RealizedVol30mPts    float64
	PinStrike            float64
	PinDistancePct       float64
	LiquidityOK          bool
	OpeningRangeHigh     float64
	OpeningRangeLow      float64
	SpotAtOpen           float64
	CurrentSpot          float64
	Breakout             Breakout
}
