package model

import "time"

// Archetype identifies one of the four strategy archetypes the scorer ranks.
type Archetype string

const (
	ArchetypeIronFly  Archetype = "Expiry Iron Fly"
	ArchetypeORB      Archetype = "ORB ITM Long"
	ArchetypeCalendar Archetype = "ATM Double Calendar"
	ArchetypeStraddle Archetype = "Delta-Hedged Short Straddle"
)

// ArchetypePriority is the documented selection order. On equal maximal
// scores the archetype appearing earlier here wins.
var ArchetypePriority = []Archetype{
	ArchetypeIronFly,
	ArchetypeORB,
	ArchetypeCalendar,
	ArchetypeStraddle,
}

// StrategyScoreSet carries one additive integer score per archetype.
// Scores may be negative; there is no normalization.
type StrategyScoreSet struct {
	IronFly                  int
	ORBITMLong               int
	ATMDoubleCalendar        int
	DeltaHedgedShortStraddle int
}

// Get returns the score for the given archetype.
func (s StrategyScoreSet) Get(a Archetype) int {
	switch a {
	case ArchetypeIronFly:
		return s.IronFly
	case ArchetypeORB:
		return s.ORBITMLong
	case ArchetypeCalendar:
		return s.ATMDoubleCalendar
	case ArchetypeStraddle:
		return s.DeltaHedgedShortStraddle
	}
	return 0
}

// Max returns the highest of the four scores.
func (s StrategyScoreSet) Max() int {
	max := s.IronFly
	for _, a := range []int{s.ORBITMLong, s.ATMDoubleCalendar, s.DeltaHedgedShortStraddle} {
		if a > max {
			max = a
		}
	}
	return max
}

// LegSide is the direction of a recommendation leg.
type LegSide string

const (
	SideBuy  LegSide = "BUY"
	SideSell LegSide = "SELL"
)

// OptionType distinguishes calls from puts.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// LegExpiry selects which expiry a leg trades.
type LegExpiry string

const (
	ExpiryToday    LegExpiry = "today"
	ExpiryNextWeek LegExpiry = "nextWeek"
)

// TradeLeg is one leg of a recommended structure. Order matters: sell legs
// are listed the way the deployment side should work them.
type TradeLeg struct {
	Side       LegSide    `json:"side"`
	OptionType OptionType `json:"optionType"`
	Strike     float64    `json:"strike"`
	Expiry     LegExpiry  `json:"expiry"`
}

// ExitRules describes how the position should be managed after entry.
type ExitRules struct {
	TakeProfit string `json:"takeProfit"`
	StopLoss   string `json:"stopLoss"`
	Notes      string `json:"notes,omitempty"`
}

// TradeRecommendation is the engine's single output. A nil recommendation
// from selection means no trade this tick.
type TradeRecommendation struct {
	ID                 string     `json:"id"`
	StrategyName       string     `json:"strategy"`
	Symbol             string     `json:"symbol"`
	GeneratedAt        time.Time  `json:"generatedAt"`
	WindowRemainingSec int        `json:"windowRemainingSec"`
	SpotAtEntry        float64    `json:"spotAtEntry"`
	Legs               []TradeLeg `json:"legs"`
	ExitRules          ExitRules  `json:"exitRules"`
	RiskBudgetFraction float64    `json:"riskBudgetFraction"`
	SuggestedLots      int        `json:"suggestedLots"`
	MaxRisk            float64    `json:"maxRisk"`
}
