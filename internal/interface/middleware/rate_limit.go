package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/campuskart/pkg/response"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc picks the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + clientIP(c) }
}

// KeyByIPAndPath counts per route, so login attempts don't eat the browse budget.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routeOf(c) + ":ip:" + clientIP(c)
	}
}

// KeyByUserID counts per account; must run after Auth.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid, ok := CurrentUserID(c)
		if !ok {
			return "rl:user:anon:ip:" + clientIP(c)
		}
		return "rl:user:" + strconv.FormatInt(uid, 10)
	}
}

// AllowFunc returns true to skip counting a request.
type AllowFunc func(*gin.Context) bool

// hitScript increments the window counter, starts the window on the first hit
// and returns {count, remaining ttl in ms} in one round trip.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// Limiter is a fixed-window counter in redis.
type Limiter struct {
	RDB    *redis.Client
	Limit  int
	Window time.Duration
}

// Decision is the outcome of one counted request.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration
}

func (l *Limiter) Hit(ctx context.Context, key string) (Decision, error) {
	res, err := hitScript.Run(ctx, l.RDB, []string{key}, l.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	var count, ttl int64
	if len(res) > 0 {
		count = res[0]
	}
	if len(res) > 1 && res[1] > 0 {
		ttl = res[1]
	}
	return Decision{
		Allowed:   count <= int64(l.Limit),
		Remaining: max(l.Limit-int(count), 0),
		Reset:     time.Duration(ttl) * time.Millisecond,
	}, nil
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// RateLimit answers 429 once a key exceeds limit hits per window and sets the
// X-RateLimit-* headers. OPTIONS is never counted. A nil client disables limiting
// and redis errors fail open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	l := &Limiter{RDB: rdb, Limit: limit, Window: window}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		d, err := l.Hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}
		reset := ceilSeconds(d.Reset)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))
		if !d.Allowed {
			if reset > 0 {
				c.Header("Retry-After", strconv.Itoa(reset))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
