package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BootcampKeyPrefix  = "bootcamp:%d"
	GeocodeKeyPrefix   = "geocode:%s"
	BlacklistKeyPrefix = "blacklist:%s"
)

const (
	BootcampTTL = 10 * time.Minute
	GeocodeTTL  = 24 * time.Hour
)

func BootcampKey(bootcampID uint) string {
	return fmt.Sprintf(BootcampKeyPrefix, bootcampID)
}

// GeocodeKey normalizes the query so "02118" and " 02118 " share an entry.
func GeocodeKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf(GeocodeKeyPrefix, normalized)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBootcamp(ctx context.Context, bootcampID uint) {
	Invalidate(ctx, BootcampKey(bootcampID))
}

// Blacklist marks a token id as revoked until ttl elapses.
func Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, BlacklistKey(jti), "1", ttl).Err()
}

// IsBlacklisted reports whether jti was revoked. Without Redis nothing is revoked.
func IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if client == nil || jti == "" {
		return false, nil
	}
	n, err := client.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
