package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/hawkstone-global/hawkstone_backend/config"
)

// NewLimiter builds a sliding-window limiter for the form endpoints. Counters
// live in Redis when a client is given so all replicas share them, and in
// process memory otherwise.
func NewLimiter(cfg config.RateLimitConfig, rdb *redis.Client) fiber.Handler {
	limit := cfg.Max
	if limit <= 0 {
		limit = 20
	}
	expiration := time.Duration(cfg.ExpirationSeconds) * time.Second
	if expiration <= 0 {
		expiration = 30 * time.Second
	}

	lc := limiter.Config{
		// sliding window
		Max:               limit,
		Expiration:        expiration,
		LimiterMiddleware: limiter.SlidingWindow{},
		Next: func(c fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many submissions. Please try again shortly.",
			})
		},
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}

	return limiter.New(lc)
}
