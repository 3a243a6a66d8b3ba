package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second

	// the public confirm endpoint is gated much harder: its token is the
	// only access control, so brute-force probing must stay expensive.
	confirmRateLimitMax = 5
)

// RateLimit returns a middleware enforcing a per-IP fixed-window rate limit
// backed by Redis.
func RateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		limit := int64(rateLimitMax)
		if strings.HasPrefix(c.Request.URL.Path, "/api/confirm/") {
			limit = confirmRateLimitMax
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix()
		key := fmt.Sprintf("bf:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > limit {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
			})
			return
		}

		c.Next()
	}
}
