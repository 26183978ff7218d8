package strategy

import (
	"math"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// Score evaluates all four archetype rule tables against the signals.
// Every rule is applied unconditionally; hits add, violations subtract.
// Pure: fixed signals always yield an identical score set.
func Score(sig *model.Signals) model.StrategyScoreSet {
	return model.StrategyScoreSet{
		IronFly:                  scoreIronFly(sig),
		ORBITMLong:               scoreORB(sig),
		ATMDoubleCalendar:        scoreCalendar(sig),
		DeltaHedgedShortStraddle: scoreStraddle(sig),
	}
}

// scoreIronFly favors rich front IV, a contained expected move, and a pinned
// market; heavy skew argues against short gamma at a single strike.
func scoreIronFly(sig *model.Signals) int {
	score := 0
	if sig.FrontBackIVRatio >= 1.15 {
		score++
	}
	if sig.ExpectedMovePct <= 1.1*sig.OpeningRangeWidthPct {
		score++
	}
	if sig.PinDistancePct <= 0.35 || sig.RealizedVol30mPts < sig.FrontBackIVRatio*10 {
		score++
	}
	if math.Abs(sig.RiskReversal25Delta) >= 2.0 {
		score--
	}
	return score
}

// scoreORB wants a confirmed breakout, skew aligned with its direction,
// cheap front vol, and an expected move wide enough to pay for direction.
func scoreORB(sig *model.Signals) int {
	score := 0
	if sig.Breakout.Has {
		score++
	}
	up := sig.Breakout.Has && sig.Breakout.Direction == model.BreakoutUp
	down := sig.Breakout.Has && sig.Breakout.Direction == model.BreakoutDown
	if (up && sig.RiskReversal25Delta > 0) || (down && sig.RiskReversal25Delta < 0) {
		score++
	}
	if sig.FrontBackIVRatio <= 1.10 {
		score++
	}
	if sig.ExpectedMovePct >= 1.3*sig.OpeningRangeWidthPct {
		score++
	}
	return score
}

// scoreCalendar is the pure term-structure trade: a steep front/back ratio
// dominates, pinning or quiet tape helps, a wide opening range hurts.
func scoreCalendar(sig *model.Signals) int {
	score := 0
	if sig.FrontBackIVRatio >= 1.20 {
		score += 2
	}
	if sig.PinDistancePct <= 0.30 || sig.RealizedVol30mPts < 15 {
		score++
	}
	if sig.OpeningRangeWidthPct >= 0.9 {
		score--
	}
	return score
}

// scoreStraddle sells vol when implied runs ahead of realized by enough
// vol points; skew again penalizes the symmetric structure.
func scoreStraddle(sig *model.Signals) int {
	score := 0
	if sig.FrontBackIVRatio*15-sig.RealizedVol30mPts >= 3 {
		score += 2
	}
	if sig.ExpectedMovePct <= 1.1*sig.OpeningRangeWidthPct {
		score++
	}
	if math.Abs(sig.RiskReversal25Delta) >= 2.0 {
		score--
	}
	return score
}
