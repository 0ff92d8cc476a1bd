package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"devcamper/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// Limit describes one rate-limited resource.
type Limit struct {
	// Name keys the counter; the request path is used when empty.
	Name   string
	Max    int
	Window time.Duration
	Policy FailPolicy
}

// RateLimitBypassed reports whether env skips rate limiting so dev and load
// test workflows are not throttled.
func RateLimitBypassed(env string) bool {
	switch env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts one hit on resource for id and reports whether it is
// within limit, plus the hits left in the current window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, int, error) {
	if rdb == nil {
		return false, 0, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, 0, err
		}
	}
	remaining := limit - int(cnt)
	if remaining < 0 {
		remaining = 0
	}
	return cnt <= int64(limit), remaining, nil
}

// RateLimit returns a Fiber middleware enforcing l for env. It keys by
// authenticated user id when set, otherwise by remote IP.
func RateLimit(rdb *redis.Client, l Limit, env string) fiber.Handler {
	bypass := RateLimitBypassed(env)
	return func(c *fiber.Ctx) error {
		if bypass {
			return c.Next()
		}

		var id string
		if uid := c.Locals(LocalUserID); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = fmt.Sprintf("ip:%s", c.IP())
		}

		resource := l.Name
		if resource == "" {
			resource = c.Path()
		}

		allowed, remaining, err := CheckRateLimit(c.UserContext(), rdb, resource, id, l.Max, l.Window)
		if err != nil {
			if l.Policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					"path", c.Path(), "resource", resource, "error", err.Error())
				return models.RespondWithError(c, fiber.StatusServiceUnavailable,
					&models.AppError{Code: models.CodeUnavailable, Message: "rate limit unavailable"})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(l.Window.Seconds())))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: models.CodeRateLimited, Message: "Too many requests, please try again later"})
		}
		return c.Next()
	}
}
