package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
)

// Middleware limits requests per client IP
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return CustomKeyMiddleware(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// CustomKeyMiddleware creates a rate limiting middleware with custom key function
func CustomKeyMiddleware(limiter *RateLimiter, keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			key = c.ClientIP()
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))

		if !limiter.Allow(key) {
			retry := limiter.RetryAfter()
			resetTime := time.Now().Add(retry)
			seconds := int(retry.Seconds() + 0.5)
			if seconds < 1 {
				seconds = 1
			}

			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", resetTime.Format(time.RFC3339))
			c.Header("Retry-After", strconv.Itoa(seconds))

			response.ErrorWithData(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.", gin.H{
				"retry_after": fmt.Sprintf("%ds", seconds),
				"reset_time":  resetTime.Format(time.RFC3339),
				"limit":       limiter.Limit(),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.GetRemaining(key)))
		c.Next()
	}
}
