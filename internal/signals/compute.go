package signals

import (
	"errors"
	"math"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// ErrInsufficientData is returned when fewer than two samples or an empty
// chain snapshot make signal computation impossible. The orchestrator skips
// the tick; nothing here is fatal.
var ErrInsufficientData = errors.New("insufficient data for signal computation")

// tradingMinutesPerDay annualizes per-minute log returns to daily vol points.
const tradingMinutesPerDay = 390

// Params holds the tunable thresholds of signal computation.
type Params struct {
	BackIVFallbackRatio float64 // back IV stand-in when the feed has no second expiry
	LiquidityMaxSpread  float64 // max average ATM bid/ask width considered tradeable
	BreakoutUpRatio     float64 // spot must exceed ORH x this for an upward breakout
	BreakoutDownRatio   float64 // spot must undercut ORL x this for a downward breakout
	VolumeSurgeRatio    float64 // recent/prior volume multiple confirming a breakout
	RecentVolumeWindow  int     // samples counted as "recent" for the surge test
}

// DefaultParams mirrors the production configuration defaults.
func DefaultParams() Params {
	return Params{
		BackIVFallbackRatio: 0.85,
		LiquidityMaxSpread:  2.0,
		BreakoutUpRatio:     1.0015,
		BreakoutDownRatio:   0.9985,
		VolumeSurgeRatio:    2.0,
		RecentVolumeWindow:  5,
	}
}

// Computer derives a Signals record from a sample buffer and a chain
// snapshot. Pure: fixed inputs always produce identical output.
type Computer struct {
	p Params
}

// NewComputer creates a Computer with the given parameters.
func NewComputer(p Params) *Computer {
	return &Computer{p: p}
}

// Compute derives all signals. Returns ErrInsufficientData rather than a
// partially populated record when the inputs cannot support the math.
func (c *Computer) Compute(samples []model.MarketSample, snap *model.ChainSnapshot) (*model.Signals, error) {
	if len(samples) < 2 || snap.Empty() {
		return nil, ErrInsufficientData
	}

	spotAtOpen := samples[0].Spot
	currentSpot := samples[len(samples)-1].Spot

	orHigh, orLow := openingRange(samples)
	orWidthPct := (orHigh - orLow) / spotAtOpen * 100

	atm := snap.ATMRow(currentSpot)
	expectedMovePct := (atm.Call.LTP + atm.Put.LTP) / currentSpot * 100

	frontIV := atm.Call.ImpliedVol
	backIV := snap.BackIV
	if backIV <= 0 {
		backIV = frontIV * c.p.BackIVFallbackRatio
	}
	ivRatio := 0.0
	if backIV > 0 {
		ivRatio = frontIV / backIV
	}

	rr25 := riskReversal25(snap)
	rv := realizedVol(samples)

	pinStrike := maxOIStrike(snap)
	pinDistPct := math.Abs(currentSpot-pinStrike) / currentSpot * 100

	atmSpread := (atm.Call.Spread() + atm.Put.Spread()) / 2

	return &model.Signals{
		OpeningRangeWidthPct: orWidthPct,
		ExpectedMovePct:      expectedMovePct,
		FrontBackIVRatio:     ivRatio,
		RiskReversal25Delta:  rr25,
		RealizedVol30mPts:    rv,
		PinStrike:            pinStrike,
		PinDistancePct:       pinDistPct,
		LiquidityOK:          atmSpread <= c.p.LiquidityMaxSpread,
		OpeningRangeHigh:     orHigh,
		OpeningRangeLow:      orLow,
		SpotAtOpen:           spotAtOpen,
		CurrentSpot:          currentSpot,
		Breakout:             c.breakout(samples),
	}, nil
}

// ATMSpread returns the average ATM call/put bid-ask width, the quantity the
// liquidity flag is derived from. Zero for an empty snapshot.
func ATMSpread(snap *model.ChainSnapshot, spot float64) float64 {
	atm := snap.ATMRow(spot)
	if atm == nil {
		return 0
	}
	return (atm.Call.Spread() + atm.Put.Spread()) / 2
}

func openingRange(samples []model.MarketSample) (high, low float64) {
	high, low = samples[0].Spot, samples[0].Spot
	for _, s := range samples[1:] {
		if s.Spot > high {
			high = s.Spot
		}
		if s.Spot < low {
			low = s.Spot
		}
	}
	return high, low
}

// riskReversal25 is the IV spread between the 25-delta call and 25-delta put.
// Legs without a strike within the tolerance band contribute 0 IV.
func riskReversal25(snap *model.ChainSnapshot) float64 {
	const target, tolerance = 0.25, 0.05

	callIV, callDist := 0.0, math.MaxFloat64
	putIV, putDist := 0.0, math.MaxFloat64
	for _, row := range snap.Rows {
		if d := math.Abs(row.Call.Delta - target); d <= tolerance && d < callDist {
			callIV, callDist = row.Call.ImpliedVol, d
		}
		if d := math.Abs(math.Abs(row.Put.Delta) - target); d <= tolerance && d < putDist {
			putIV, putDist = row.Put.ImpliedVol, d
		}
	}
	return callIV - putIV
}

// realizedVol is the population RMS of per-sample log returns, annualized by
// sqrt of trading minutes per day and scaled to percentage points.
func realizedVol(samples []model.MarketSample) float64 {
	var sumSq float64
	n := 0
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1].Spot, samples[i].Spot
		if prev <= 0 || cur <= 0 {
			continue
		}
		r := math.Log(cur / prev)
		sumSq += r * r
		n++
	}
	if n == 0 {
		return 0
	}
	rms := math.Sqrt(sumSq / float64(n))
	return rms * math.Sqrt(tradingMinutesPerDay) * 100
}

// maxOIStrike returns the strike with the greatest combined call+put open
// interest, the settlement magnet. First-seen tie-break.
func maxOIStrike(snap *model.ChainSnapshot) float64 {
	best := snap.Rows[0].Strike
	bestOI := snap.Rows[0].Call.OpenInterest + snap.Rows[0].Put.OpenInterest
	for _, row := range snap.Rows[1:] {
		if oi := row.Call.OpenInterest + row.Put.OpenInterest; oi > bestOI {
			best, bestOI = row.Strike, oi
		}
	}
	return best
}

// breakout flags a volume-confirmed move beyond the opening range: recent
// average volume at least VolumeSurgeRatio times the prior average, with the
// latest spot clear of the range by the configured ratios. The range here is
// taken over the samples before the latest one; the newest print cannot
// break a range it is itself part of.
func (c *Computer) breakout(samples []model.MarketSample) model.Breakout {
	none := model.Breakout{Has: false, Direction: model.BreakoutNone}

	spot := samples[len(samples)-1].Spot
	orHigh, orLow := openingRange(samples[:len(samples)-1])

	recent := c.p.RecentVolumeWindow
	if len(samples) <= recent {
		return none
	}
	var recentSum, priorSum uint64
	split := len(samples) - recent
	for i, s := range samples {
		if i < split {
			priorSum += s.Volume
		} else {
			recentSum += s.Volume
		}
	}
	if priorSum == 0 {
		return none
	}
	recentAvg := float64(recentSum) / float64(recent)
	priorAvg := float64(priorSum) / float64(split)
	if recentAvg < priorAvg*c.p.VolumeSurgeRatio {
		return none
	}

	switch {
	case spot > orHigh*c.p.BreakoutUpRatio:
		return model.Breakout{Has: true, Direction: model.BreakoutUp}
	case spot < orLow*c.p.BreakoutDownRatio:
		return model.Breakout{Has: true, Direction: model.BreakoutDown}
	}
	return none
}
