package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// windowCounter считает запросы в фиксированном окне
type windowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// RateLimiter ограничивает число запросов с одного адреса в минуту.
// При недоступности Redis запросы пропускаются.
type RateLimiter struct {
	counter windowCounter
	limit   int
	window  time.Duration
	prefix  string
	logger  *zap.Logger
}

// NewRedisRateLimiter создаёт ограничитель на Redis
func NewRedisRateLimiter(rdb *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return newRateLimiter(redisCounter{rdb: rdb}, limit, logger)
}

func newRateLimiter(counter windowCounter, limit int, logger *zap.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  time.Minute,
		prefix:  "consult_scheduler:rl",
		logger:  logger,
	}
}

// Middleware gin middleware ограничителя
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.prefix + ":" + c.ClientIP()
		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("Rate limiter unavailable, request allowed", zap.Error(err))
			c.Next()
			return
		}
		if count > int64(rl.limit) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
