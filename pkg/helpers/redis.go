package helpers

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client behind the rate limiters. Timeouts are short
// because a slow redis must not hold requests; the limiter fails open instead.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolTimeout:  time.Second,
		MaxRetries:   1,
	})
}
