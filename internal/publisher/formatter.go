package publisher

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// FormatRecommendation renders a recommendation as a Telegram HTML message.
func FormatRecommendation(rec *model.TradeRecommendation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🎯 <b>%s</b> | %s\n", rec.StrategyName, rec.Symbol))
	b.WriteString(fmt.Sprintf("Spot at entry: %.2f | %s\n\n", rec.SpotAtEntry, rec.GeneratedAt.Format("15:04:05")))

	b.WriteString("<b>Legs:</b>\n")
	for _, leg := range rec.Legs {
		b.WriteString(fmt.Sprintf("  %s %s %s @ %s\n",
			leg.Side, leg.OptionType, humanize.Commaf(leg.Strike), leg.Expiry))
	}

	b.WriteString(fmt.Sprintf("\n<b>Sizing:</b> %d lot(s), risk ₹%s (%.0f%% of daily budget)\n",
		rec.SuggestedLots, humanize.Commaf(rec.MaxRisk), rec.RiskBudgetFraction*100))

	b.WriteString(fmt.Sprintf("\n<b>Take profit:</b> %s\n", rec.ExitRules.TakeProfit))
	b.WriteString(fmt.Sprintf("<b>Stop loss:</b> %s\n", rec.ExitRules.StopLoss))
	if rec.ExitRules.Notes != "" {
		b.WriteString(fmt.Sprintf("<b>Notes:</b> %s\n", rec.ExitRules.Notes))
	}
	return b.String()
}

// FormatSessionSummary renders the end-of-window wrap-up message.
func FormatSessionSummary(symbol string, ticks, recommendations int, lastSignals *model.Signals) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏁 <b>Session closed</b> | %s\n\n", symbol))
	b.WriteString(fmt.Sprintf("Ticks evaluated: %d\n", ticks))
	b.WriteString(fmt.Sprintf("Recommendations emitted: %d\n", recommendations))
	if lastSignals != nil {
		b.WriteString(fmt.Sprintf("\nLast spot: %.2f (OR %.2f–%.2f)\n",
			lastSignals.CurrentSpot, lastSignals.OpeningRangeLow, lastSignals.OpeningRangeHigh))
		b.WriteString(fmt.Sprintf("IV ratio: %.3f | RV: %.1f pts | Pin: %s\n",
			lastSignals.FrontBackIVRatio, lastSignals.RealizedVol30mPts,
			humanize.Commaf(lastSignals.PinStrike)))
	}
	return b.String()
}
