package gamebanana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedResolver decorates a Resolver with a Redis cache. Successful lookups
// are cached in both directions; not-found and transport failures are never
// cached, so a transient upstream outage doesn't poison later requests.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
}

// NewCachedResolver creates a cached resolver backed by Redis
func NewCachedResolver(inner Resolver, address, password string, db int, ttl time.Duration) (*CachedResolver, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedResolver{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}, nil
}

// UserName resolves a member id to a name, consulting the cache first
func (r *CachedResolver) UserName(ctx context.Context, id int64) (string, error) {
	key := fmt.Sprintf("gb:name:%d", id)

	if name, err := r.client.Get(ctx, key).Result(); err == nil {
		return name, nil
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("redis get failed, falling through to lookup", "key", key, "error", err)
	}

	name, err := r.inner.UserName(ctx, id)
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, key, name, r.ttl).Err(); err != nil {
		slog.Warn("failed to cache gamebanana name", "key", key, "error", err)
	}

	return name, nil
}

// UserID resolves a username to a member id, consulting the cache first
func (r *CachedResolver) UserID(ctx context.Context, username string) (int64, error) {
	key := "gb:id:" + username

	if val, err := r.client.Get(ctx, key).Result(); err == nil {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			return id, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("redis get failed, falling through to lookup", "key", key, "error", err)
	}

	id, err := r.inner.UserID(ctx, username)
	if err != nil {
		return 0, err
	}

	if err := r.client.Set(ctx, key, strconv.FormatInt(id, 10), r.ttl).Err(); err != nil {
		slog.Warn("failed to cache gamebanana id", "key", key, "error", err)
	}

	return id, nil
}

// Invalidate drops the cached name for a member id. The refresh worker calls
// this before re-resolving so renames are picked up.
func (r *CachedResolver) Invalidate(ctx context.Context, id int64) error {
	return r.client.Del(ctx, fmt.Sprintf("gb:name:%d", id)).Err()
}

// Ping checks Redis connectivity
func (r *CachedResolver) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *CachedResolver) Close() error {
	return r.client.Close()
}
