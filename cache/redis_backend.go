package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKey = "caseledger:records"

// RedisBackend shares one snapshot between server instances
type RedisBackend struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisBackend connects to redisURL. Snapshots expire from redis after
// twice the cache duration; staleness is still judged by FetchedAt.
func NewRedisBackend(redisURL string, duration time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisBackendWithClient(client, duration), nil
}

// NewRedisBackendWithClient creates a backend from an existing client
func NewRedisBackendWithClient(client *redis.Client, duration time.Duration) *RedisBackend {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &RedisBackend{
		client: client,
		key:    redisKey,
		ttl:    2 * duration,
	}
}

func (r *RedisBackend) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (r *RedisBackend) Store(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
