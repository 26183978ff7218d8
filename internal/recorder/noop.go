package recorder

import "github.com/ashish-frozo/tradingbot/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ *TickSnapshot) error                        { return nil }
func (n *NoopRecorder) RecordRecommendation(_ *model.TradeRecommendation) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
