package publisher

import (
	"context"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// Publisher delivers an emitted recommendation to one external consumer
// (display, execution, alerting). Failures are logged by the engine, never
// fatal; a publisher must not block the tick beyond its own timeout.
type Publisher interface {
	Publish(ctx context.Context, rec *model.TradeRecommendation) error
	Name() string
}
