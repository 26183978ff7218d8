package strategy

import (
	"math"

	"github.com/ashish-frozo/tradingbot/internal/model"
	"github.com/ashish-frozo/tradingbot/internal/signals"
)

// Config holds the construction and sizing parameters.
type Config struct {
	MinWinningScore    int
	DailyRiskBudget    float64
	LotSize            int
	LiquidityMaxSpread float64
	RiskFractions      map[model.Archetype]float64
}

// DefaultConfig mirrors the production defaults for NIFTY weeklies.
func DefaultConfig() Config {
	return Config{
		MinWinningScore:    2,
		DailyRiskBudget:    25000,
		LotSize:            50,
		LiquidityMaxSpread: 2.0,
		RiskFractions: map[model.Archetype]float64{
			model.ArchetypeIronFly:  0.5,
			model.ArchetypeORB:      0.3,
			model.ArchetypeCalendar: 0.5,
			model.ArchetypeStraddle: 1.0,
		},
	}
}

// Constructor turns a winning archetype into a fully parameterized trade.
type Constructor struct {
	cfg Config
}

// NewConstructor creates a Constructor with the given config.
func NewConstructor(cfg Config) *Constructor {
	if cfg.RiskFractions == nil {
		cfg.RiskFractions = DefaultConfig().RiskFractions
	}
	return &Constructor{cfg: cfg}
}

// Select picks the winning archetype and builds its recommendation. Returns
// nil (no trade) when no score reaches the minimum bar or liquidity fails.
// Ties resolve by model.ArchetypePriority: the earlier archetype wins.
func (c *Constructor) Select(scores model.StrategyScoreSet, sig *model.Signals, snap *model.ChainSnapshot) *model.TradeRecommendation {
	maxScore := scores.Max()
	if maxScore < c.cfg.MinWinningScore || !sig.LiquidityOK {
		return nil
	}

	var winner model.Archetype
	for _, a := range model.ArchetypePriority {
		if scores.Get(a) == maxScore {
			winner = a
			break
		}
	}

	atm := snap.ATMRow(sig.CurrentSpot)
	if atm == nil {
		return nil
	}

	var rec *model.TradeRecommendation
	switch winner {
	case model.ArchetypeIronFly:
		rec = c.buildIronFly(atm, snap)
	case model.ArchetypeORB:
		rec = c.buildORB(sig, atm, snap)
	case model.ArchetypeCalendar:
		rec = c.buildCalendar(sig, atm, snap)
	case model.ArchetypeStraddle:
		rec = c.buildStraddle(atm)
	}
	if rec == nil {
		return nil
	}

	rec.RiskBudgetFraction = c.cfg.RiskFractions[winner]
	rec.SpotAtEntry = sig.CurrentSpot
	rec.MaxRisk = rec.RiskBudgetFraction * c.cfg.DailyRiskBudget
	rec.SuggestedLots = c.suggestedLots(rec, snap)
	return rec
}

// buildIronFly sells the ATM straddle and buys wings 1% out on each side,
// all on today's expiry.
func (c *Constructor) buildIronFly(atm *model.OptionChainRow, snap *model.ChainSnapshot) *model.TradeRecommendation {
	wingCall := snap.NearestStrikeRow(atm.Strike * 1.01)
	wingPut := snap.NearestStrikeRow(atm.Strike * 0.99)
	return &model.TradeRecommendation{
		StrategyName: string(model.ArchetypeIronFly),
		Legs: []model.TradeLeg{
			{Side: model.SideSell, OptionType: model.OptionCall, Strike: atm.Strike, Expiry: model.ExpiryToday},
			{Side: model.SideSell, OptionType: model.OptionPut, Strike: atm.Strike, Expiry: model.ExpiryToday},
			{Side: model.SideBuy, OptionType: model.OptionCall, Strike: wingCall.Strike, Expiry: model.ExpiryToday},
			{Side: model.SideBuy, OptionType: model.OptionPut, Strike: wingPut.Strike, Expiry: model.ExpiryToday},
		},
		ExitRules: model.ExitRules{
			TakeProfit: "Close at 35-50% of net credit collected",
			StopLoss:   "Exit if spot trends beyond 0.8% from entry, or mark-to-market loss exceeds 1.5x credit",
			Notes:      "Short gamma at the pin; manage actively into expiry",
		},
	}
}

// buildORB buys a single ITM leg in the breakout direction at the strike
// whose delta magnitude is closest to 0.75, falling back to ATM when no
// strike qualifies.
func (c *Constructor) buildORB(sig *model.Signals, atm *model.OptionChainRow, snap *model.ChainSnapshot) *model.TradeRecommendation {
	if !sig.Breakout.Has || sig.Breakout.Direction == model.BreakoutNone {
		return nil
	}

	optType := model.OptionCall
	if sig.Breakout.Direction == model.BreakoutDown {
		optType = model.OptionPut
	}
	strike := deltaTargetStrike(snap, optType, 0.75)
	if strike == 0 {
		strike = atm.Strike
	}

	return &model.TradeRecommendation{
		StrategyName: string(model.ArchetypeORB),
		Legs: []model.TradeLeg{
			{Side: model.SideBuy, OptionType: optType, Strike: strike, Expiry: model.ExpiryToday},
		},
		ExitRules: model.ExitRules{
			TakeProfit: "Partial exit at 40-60% premium gain, trail the remainder",
			StopLoss:   "Exit at -30% premium or when price re-enters the opening range",
			Notes:      "Max two attempts per session",
		},
	}
}

// buildCalendar buys the ATM straddle on next week's expiry against selling
// it on today's. Skipped when the ATM spread is already borderline: paying
// four spreads on a marginal book gives the edge away.
func (c *Constructor) buildCalendar(sig *model.Signals, atm *model.OptionChainRow, snap *model.ChainSnapshot) *model.TradeRecommendation {
	if signals.ATMSpread(snap, sig.CurrentSpot) > c.cfg.LiquidityMaxSpread/2 {
		return nil
	}
	return &model.TradeRecommendation{
		StrategyName: string(model.ArchetypeCalendar),
		Legs: []model.TradeLeg{
			{Side: model.SideBuy, OptionType: model.OptionCall, Strike: atm.Strike, Expiry: model.ExpiryNextWeek},
			{Side: model.SideBuy, OptionType: model.OptionPut, Strike: atm.Strike, Expiry: model.ExpiryNextWeek},
			{Side: model.SideSell, OptionType: model.OptionCall, Strike: atm.Strike, Expiry: model.ExpiryToday},
			{Side: model.SideSell, OptionType: model.OptionPut, Strike: atm.Strike, Expiry: model.ExpiryToday},
		},
		ExitRules: model.ExitRules{
			TakeProfit: "Close when front/back IV ratio falls to 1.10 or below, or mark-to-market gain reaches 30%",
			StopLoss:   "Exit when |spot - ATM| / spot reaches 0.7%",
		},
	}
}

// buildStraddle sells the ATM straddle on today's expiry, delta-hedged.
func (c *Constructor) buildStraddle(atm *model.OptionChainRow) *model.TradeRecommendation {
	return &model.TradeRecommendation{
		StrategyName: string(model.ArchetypeStraddle),
		Legs: []model.TradeLeg{
			{Side: model.SideSell, OptionType: model.OptionCall, Strike: atm.Strike, Expiry: model.ExpiryToday},
			{Side: model.SideSell, OptionType: model.OptionPut, Strike: atm.Strike, Expiry: model.ExpiryToday},
		},
		ExitRules: model.ExitRules{
			TakeProfit: "Close at 25-40% of credit",
			StopLoss:   "Hard stop at -1 risk unit inclusive of hedge slippage",
			Notes:      "Re-hedge whenever portfolio delta drifts beyond +/-0.10",
		},
	}
}

// deltaTargetStrike finds the strike whose delta magnitude is closest to
// target for the given option side. Returns 0 when the chain is empty.
func deltaTargetStrike(snap *model.ChainSnapshot, optType model.OptionType, target float64) float64 {
	best, bestDist := 0.0, math.MaxFloat64
	for _, row := range snap.Rows {
		delta := row.Call.Delta
		if optType == model.OptionPut {
			delta = row.Put.Delta
		}
		if d := math.Abs(math.Abs(delta) - target); d < bestDist {
			best, bestDist = row.Strike, d
		}
	}
	return best
}

// suggestedLots sizes the position: the archetype's share of the daily risk
// budget divided by the premium notional of one lot. Always at least one lot
// when a trade is emitted.
func (c *Constructor) suggestedLots(rec *model.TradeRecommendation, snap *model.ChainSnapshot) int {
	var premium float64
	for _, leg := range rec.Legs {
		row := snap.NearestStrikeRow(leg.Strike)
		if row == nil {
			continue
		}
		if leg.OptionType == model.OptionCall {
			premium += row.Call.LTP
		} else {
			premium += row.Put.LTP
		}
	}
	perLot := premium * float64(c.cfg.LotSize)
	if perLot <= 0 {
		return 1
	}
	lots := int(rec.MaxRisk / perLot)
	if lots < 1 {
		lots = 1
	}
	return lots
}
