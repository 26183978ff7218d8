package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashish-frozo/tradingbot/internal/model"
	"github.com/ashish-frozo/tradingbot/internal/signals"
)

// quietPinnedSignals is the iron-fly friendly tape: rich front vol, tight
// range, spot sitting on the pin.
func quietPinnedSignals() *model.Signals {
	return &model.Signals{
		OpeningRangeWidthPct: 0.28,
		ExpectedMovePct:      0.30,
		FrontBackIVRatio:     1.176,
		RiskReversal25Delta:  0.5,
		RealizedVol30mPts:    3.5,
		PinStrike:            25000,
		PinDistancePct:       0.0,
		LiquidityOK:          true,
		OpeningRangeHigh:     25050,
		OpeningRangeLow:      24980,
		SpotAtOpen:           25000,
		CurrentSpot:          25000,
		Breakout:             model.Breakout{Has: false, Direction: model.BreakoutNone},
	}
}

func testChain(spot float64) *model.ChainSnapshot {
	snap := &model.ChainSnapshot{Symbol: "NIFTY", FetchedAt: time.Now()}
	for strike := spot - 300; strike <= spot+300; strike += 50 {
		callDelta := 0.5 - (strike-spot)*0.001
		callLTP := 38 + (spot-strike)*0.6
		if callLTP < 2 {
			callLTP = 2
		}
		putLTP := 37 + (strike-spot)*0.6
		if putLTP < 2 {
			putLTP = 2
		}
		snap.Rows = append(snap.Rows, model.OptionChainRow{
			Strike: strike,
			Call: model.OptionLeg{
				LTP: callLTP, Bid: callLTP - 0.5, Ask: callLTP + 0.5,
				OpenInterest: 400_000, ImpliedVol: 18, Delta: callDelta,
			},
			Put: model.OptionLeg{
				LTP: putLTP, Bid: putLTP - 0.5, Ask: putLTP + 0.5,
				OpenInterest: 400_000, ImpliedVol: 18, Delta: callDelta - 1,
			},
		})
	}
	return snap
}

func TestScore_IronFlyRuleTable(t *testing.T) {
	sig := quietPinnedSignals()
	assert.Equal(t, 3, Score(sig).IronFly)

	// Heavy skew costs a point.
	sig.RiskReversal25Delta = 2.5
	assert.Equal(t, 2, Score(sig).IronFly)

	// Cheap front vol drops the term-structure point.
	sig = quietPinnedSignals()
	sig.FrontBackIVRatio = 1.05
	assert.Equal(t, 2, Score(sig).IronFly)

	// Far from the pin with hot realized vol loses the pin rule too.
	sig = quietPinnedSignals()
	sig.PinDistancePct = 1.0
	sig.RealizedVol30mPts = 20
	assert.Equal(t, 2, Score(sig).IronFly)
}

func TestScore_ORBRuleTable(t *testing.T) {
	sig := quietPinnedSignals()
	assert.Equal(t, 0, Score(sig).ORBITMLong)

	sig.Breakout = model.Breakout{Has: true, Direction: model.BreakoutUp}
	sig.RiskReversal25Delta = 1.0 // aligned with the upside break
	sig.FrontBackIVRatio = 1.05   // cheap front vol
	sig.ExpectedMovePct = 0.40    // >= 1.3 x 0.28
	assert.Equal(t, 4, Score(sig).ORBITMLong)

	// Skew against the break loses only the alignment point.
	sig.RiskReversal25Delta = -1.0
	assert.Equal(t, 3, Score(sig).ORBITMLong)

	// Downward break with negative skew is aligned.
	sig.Breakout.Direction = model.BreakoutDown
	assert.Equal(t, 4, Score(sig).ORBITMLong)
}

func TestScore_CalendarRuleTable(t *testing.T) {
	sig := quietPinnedSignals()
	sig.FrontBackIVRatio = 1.25
	assert.Equal(t, 3, Score(sig).ATMDoubleCalendar)

	sig.OpeningRangeWidthPct = 1.0
	assert.Equal(t, 2, Score(sig).ATMDoubleCalendar)

	sig.FrontBackIVRatio = 1.10
	sig.PinDistancePct = 0.5
	sig.RealizedVol30mPts = 20
	assert.Equal(t, -1, Score(sig).ATMDoubleCalendar)
}

func TestScore_StraddleRuleTable(t *testing.T) {
	sig := quietPinnedSignals()
	// 1.176*15 - 3.5 = 14.1 >= 3, expected move contained.
	assert.Equal(t, 3, Score(sig).DeltaHedgedShortStraddle)

	sig.RealizedVol30mPts = 16
	assert.Equal(t, 1, Score(sig).DeltaHedgedShortStraddle)

	sig.RiskReversal25Delta = -2.0
	assert.Equal(t, 0, Score(sig).DeltaHedgedShortStraddle)
}

func TestScore_Deterministic(t *testing.T) {
	sig := quietPinnedSignals()
	assert.Equal(t, Score(sig), Score(sig))
}

func TestSelect_IronFlyScenario(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	snap := testChain(25000)

	scores := Score(sig)
	require.GreaterOrEqual(t, scores.IronFly, 3)

	rec := c.Select(scores, sig, snap)
	require.NotNil(t, rec)
	assert.Equal(t, string(model.ArchetypeIronFly), rec.StrategyName)

	require.Len(t, rec.Legs, 4)
	assert.Equal(t, model.TradeLeg{Side: model.SideSell, OptionType: model.OptionCall, Strike: 25000, Expiry: model.ExpiryToday}, rec.Legs[0])
	assert.Equal(t, model.TradeLeg{Side: model.SideSell, OptionType: model.OptionPut, Strike: 25000, Expiry: model.ExpiryToday}, rec.Legs[1])
	assert.Equal(t, model.TradeLeg{Side: model.SideBuy, OptionType: model.OptionCall, Strike: 25250, Expiry: model.ExpiryToday}, rec.Legs[2])
	assert.Equal(t, model.TradeLeg{Side: model.SideBuy, OptionType: model.OptionPut, Strike: 24750, Expiry: model.ExpiryToday}, rec.Legs[3])

	assert.Equal(t, 0.5, rec.RiskBudgetFraction)
	assert.Equal(t, 12500.0, rec.MaxRisk)
	assert.GreaterOrEqual(t, rec.SuggestedLots, 1)
}

func TestSelect_NoTradeOnIlliquidity(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	sig.LiquidityOK = false

	rec := c.Select(model.StrategyScoreSet{IronFly: 5}, sig, testChain(25000))
	assert.Nil(t, rec)
}

func TestSelect_NoTradeBelowMinScore(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()

	rec := c.Select(model.StrategyScoreSet{IronFly: 1, ORBITMLong: 1, ATMDoubleCalendar: 0, DeltaHedgedShortStraddle: -1}, sig, testChain(25000))
	assert.Nil(t, rec)
}

func TestSelect_TieBreakFollowsPriorityOrder(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	sig.Breakout = model.Breakout{Has: true, Direction: model.BreakoutUp}
	snap := testChain(25000)

	rec := c.Select(model.StrategyScoreSet{IronFly: 3, ORBITMLong: 3, ATMDoubleCalendar: 1, DeltaHedgedShortStraddle: 3}, sig, snap)
	require.NotNil(t, rec)
	assert.Equal(t, string(model.ArchetypeIronFly), rec.StrategyName)

	rec = c.Select(model.StrategyScoreSet{IronFly: 2, ORBITMLong: 3, ATMDoubleCalendar: 3, DeltaHedgedShortStraddle: 3}, sig, snap)
	require.NotNil(t, rec)
	assert.Equal(t, string(model.ArchetypeORB), rec.StrategyName)

	rec = c.Select(model.StrategyScoreSet{IronFly: 2, ORBITMLong: 2, ATMDoubleCalendar: 3, DeltaHedgedShortStraddle: 3}, sig, snap)
	require.NotNil(t, rec)
	assert.Equal(t, string(model.ArchetypeCalendar), rec.StrategyName)
}

func TestSelect_ORBBuysDeepCallOnUpsideBreak(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	sig.Breakout = model.Breakout{Has: true, Direction: model.BreakoutUp}

	rec := c.Select(model.StrategyScoreSet{ORBITMLong: 4}, sig, testChain(25000))
	require.NotNil(t, rec)
	require.Len(t, rec.Legs, 1)

	// 0.75-delta call sits at 24750 on this chain.
	assert.Equal(t, model.SideBuy, rec.Legs[0].Side)
	assert.Equal(t, model.OptionCall, rec.Legs[0].OptionType)
	assert.Equal(t, 24750.0, rec.Legs[0].Strike)
	assert.Equal(t, 0.3, rec.RiskBudgetFraction)
}

func TestSelect_ORBBuysDeepPutOnDownsideBreak(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	sig.Breakout = model.Breakout{Has: true, Direction: model.BreakoutDown}

	rec := c.Select(model.StrategyScoreSet{ORBITMLong: 4}, sig, testChain(25000))
	require.NotNil(t, rec)
	require.Len(t, rec.Legs, 1)

	// 0.75-delta put sits at 25250.
	assert.Equal(t, model.OptionPut, rec.Legs[0].OptionType)
	assert.Equal(t, 25250.0, rec.Legs[0].Strike)
}

func TestSelect_ORBWithoutBreakoutIsNoTrade(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals() // no breakout

	rec := c.Select(model.StrategyScoreSet{ORBITMLong: 2}, sig, testChain(25000))
	assert.Nil(t, rec)
}

func TestSelect_CalendarLegsAndBorderlineSkip(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	snap := testChain(25000)

	rec := c.Select(model.StrategyScoreSet{ATMDoubleCalendar: 3}, sig, snap)
	require.NotNil(t, rec)
	require.Len(t, rec.Legs, 4)
	assert.Equal(t, model.ExpiryNextWeek, rec.Legs[0].Expiry)
	assert.Equal(t, model.ExpiryNextWeek, rec.Legs[1].Expiry)
	assert.Equal(t, model.ExpiryToday, rec.Legs[2].Expiry)
	assert.Equal(t, model.ExpiryToday, rec.Legs[3].Expiry)

	// Spreads above half the liquidity threshold downgrade the calendar.
	for i := range snap.Rows {
		snap.Rows[i].Call.Bid = snap.Rows[i].Call.LTP - 0.75
		snap.Rows[i].Call.Ask = snap.Rows[i].Call.LTP + 0.75
		snap.Rows[i].Put.Bid = snap.Rows[i].Put.LTP - 0.75
		snap.Rows[i].Put.Ask = snap.Rows[i].Put.LTP + 0.75
	}
	rec = c.Select(model.StrategyScoreSet{ATMDoubleCalendar: 3}, sig, snap)
	assert.Nil(t, rec)
}

func TestSelect_StraddleLegs(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()

	rec := c.Select(model.StrategyScoreSet{DeltaHedgedShortStraddle: 3}, sig, testChain(25000))
	require.NotNil(t, rec)
	require.Len(t, rec.Legs, 2)
	assert.Equal(t, model.SideSell, rec.Legs[0].Side)
	assert.Equal(t, model.SideSell, rec.Legs[1].Side)
	assert.Equal(t, 1.0, rec.RiskBudgetFraction)
	assert.Equal(t, 25000.0, rec.MaxRisk)
}

func TestSelect_SuggestedLotsFollowBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DailyRiskBudget = 50000
	c := NewConstructor(cfg)
	sig := quietPinnedSignals()

	rec := c.Select(model.StrategyScoreSet{DeltaHedgedShortStraddle: 3}, sig, testChain(25000))
	require.NotNil(t, rec)
	// Straddle premium 38+37=75; one lot notional 3750; budget 50000.
	assert.Equal(t, 13, rec.SuggestedLots)
}

func TestScoreThenSelect_RoundTripDeterministic(t *testing.T) {
	c := NewConstructor(DefaultConfig())
	sig := quietPinnedSignals()
	snap := testChain(25000)

	first := c.Select(Score(sig), sig, snap)
	second := c.Select(Score(sig), sig, snap)
	assert.Equal(t, first, second)
}

func TestATMSpreadHelper(t *testing.T) {
	snap := testChain(25000)
	assert.InDelta(t, 1.0, signals.ATMSpread(snap, 25000), 0.0001)
	assert.Zero(t, signals.ATMSpread(&model.ChainSnapshot{}, 25000))
}
