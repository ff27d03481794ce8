package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"cohortcompare/internal/domain"
	"cohortcompare/internal/platform/redis"
)

// SummaryCache holds the latest run summary so status polls skip the
// database between runs.
type SummaryCache interface {
	SetLatest(ctx context.Context, run domain.Run) error
	GetLatest(ctx context.Context) (domain.Run, bool, error)
}

const latestRunKey = "cohortcompare:latest_run"

// RedisSummaryCache stores the latest run as JSON under a fixed key.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) SetLatest(ctx context.Context, run domain.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := c.client.Set(ctx, latestRunKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache run summary: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) GetLatest(ctx context.Context) (domain.Run, bool, error) {
	payload, err := c.client.Get(ctx, latestRunKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Run{}, false, nil
	}
	if err != nil {
		return domain.Run{}, false, fmt.Errorf("read run summary: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return domain.Run{}, false, fmt.Errorf("unmarshal run summary: %w", err)
	}
	return run, true, nil
}
