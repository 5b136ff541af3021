package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ifore/models"
)

const defaultPrefix = "ifore:series:"

// Redis stores series as JSON strings that expire after ttl.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: defaultPrefix,
		ttl:    ttl,
	}
}

// Dial parses a redis:// URL and checks the server is reachable.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]models.Point, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get series from redis: %w", err)
	}
	var points []models.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal series: %w", err)
	}
	return points, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, points []models.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save series to redis: %w", err)
	}
	return nil
}
