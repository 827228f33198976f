package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tableside-ordering/kiosk-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisRatingCache memoizes per-dish rating aggregates across sessions.
type RedisRatingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRatingCache(client *redis.Client, ttl time.Duration) *RedisRatingCache {
	return &RedisRatingCache{Client: client, TTL: ttl}
}

func (c *RedisRatingCache) RatingKey(dishID string) string {
	return "rating:dish:" + dishID
}

// Get returns nil, nil on a miss.
func (c *RedisRatingCache) Get(ctx context.Context, dishID string) (*domain.Rating, error) {
	raw, err := c.Client.Get(ctx, c.RatingKey(dishID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rating domain.Rating
	if err := json.Unmarshal(raw, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (c *RedisRatingCache) Set(ctx context.Context, dishID string, rating domain.Rating) error {
	payload, err := json.Marshal(rating)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.RatingKey(dishID), payload, c.TTL).Err()
}
