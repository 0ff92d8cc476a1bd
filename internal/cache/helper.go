package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"devcamper/internal/observability"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result in Redis with ttl. Cache errors degrade to a direct fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client != nil {
		getCtx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "get")
		found, err := GetJSON(getCtx, key, dest)
		span.SetAttributes(attribute.Bool("cache.hit", found))
		observability.EndSpan(span, err)
		if err == nil && found {
			return nil
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		setCtx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "set")
		// best-effort
		observability.EndSpan(span, SetJSON(setCtx, key, dest, ttl))
	}
	return nil
}
