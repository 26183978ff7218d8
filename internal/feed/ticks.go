package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// wsTick is the wire shape of one market tick.
type wsTick struct {
	Spot      float64 `json:"spot"`
	Timestamp string  `json:"timestamp"` // ISO-8601
	Volume    uint64  `json:"volume"`
}

// WSTickFeed consumes the market-data websocket and keeps only the most
// recent tick. Reconnects with a flat delay on any read or dial failure.
type WSTickFeed struct {
	url string

	mu     sync.RWMutex
	latest model.MarketSample
	seen   bool
}

// NewWSTickFeed creates a feed for the given websocket URL.
func NewWSTickFeed(url string) *WSTickFeed {
	return &WSTickFeed{url: url}
}

func (f *WSTickFeed) Name() string { return "ws-ticks" }

// Latest returns the most recent tick and whether one has arrived yet.
func (f *WSTickFeed) Latest() (model.MarketSample, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.seen
}

// Run dials and reads until ctx is cancelled. Intended for its own goroutine.
func (f *WSTickFeed) Run(ctx context.Context) {
	const reconnectDelay = 5 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}
		if err := f.readLoop(ctx); err != nil {
			log.Warn().Err(err).Str("url", f.url).Msg("tick feed disconnected, reconnecting")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (f *WSTickFeed) readLoop(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Info().Str("url", f.url).Msg("tick feed connected")
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var t wsTick
		if err := json.Unmarshal(payload, &t); err != nil {
			log.Debug().Err(err).Msg("skipping malformed tick")
			continue
		}
		ts, err := time.Parse(time.RFC3339, t.Timestamp)
		if err != nil {
			ts = time.Now()
		}
		f.mu.Lock()
		f.latest = model.MarketSample{Spot: t.Spot, Timestamp: ts, Volume: t.Volume}
		f.seen = true
		f.mu.Unlock()
	}
}
