package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// RedisPublisher pushes each recommendation onto a pub/sub channel and keeps
// the latest one under a key, so both live subscribers and late joiners see it.
type RedisPublisher struct {
	client    *redis.Client
	channel   string
	latestKey string
	ttl       time.Duration
}

// NewRedisPublisher connects a publisher to the given Redis instance.
func NewRedisPublisher(addr string, db int, channel, latestKey string) *RedisPublisher {
	return &RedisPublisher{
		client:    redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		channel:   channel,
		latestKey: latestKey,
		ttl:       24 * time.Hour,
	}
}

func (p *RedisPublisher) Name() string { return "redis" }

// Publish serializes the recommendation and writes both the channel and the
// latest-key. The key expires after a day; nothing crosses sessions.
func (p *RedisPublisher) Publish(ctx context.Context, rec *model.TradeRecommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	if err := p.client.Set(ctx, p.latestKey, payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", p.latestKey, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
