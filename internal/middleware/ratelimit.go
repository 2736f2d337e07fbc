package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"travelhub/internal/pkg/response"
)

// fixed window: first hit sets the expiry, later hits only count.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return { n, ttl }
`)

type RateLimitOptions struct {
	Prefix   string
	Requests int
	Window   time.Duration
}

// RateLimit limits requests per client IP and route. A nil client disables limiting;
// redis errors fail open.
func RateLimit(rdb redis.Scripter, opts RateLimitOptions, log zerolog.Logger) gin.HandlerFunc {
	if rdb == nil || opts.Requests <= 0 || opts.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if opts.Prefix == "" {
		opts.Prefix = "rl"
	}

	return func(c *gin.Context) {
		key := opts.Prefix + ":" + c.FullPath() + ":" + c.ClientIP()

		vals, err := windowScript.Run(c.Request.Context(), rdb, []string{key}, opts.Window.Milliseconds()).Int64Slice()
		if err != nil || len(vals) != 2 {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		count, ttlMs := vals[0], vals[1]

		remaining := int64(opts.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(opts.Requests) {
			secs := int(math.Ceil(float64(ttlMs) / 1000))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			response.Abort(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
			return
		}
		c.Next()
	}
}
