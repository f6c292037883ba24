package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter limits requests per client IP. rate uses limiter notation,
// e.g. "100-M" for 100 per minute. An empty or invalid rate disables the
// middleware.
func RateLimiter(rate string) gin.HandlerFunc {
	formatted, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}
	lim := limiter.New(memory.NewStore(), formatted)

	return func(c *gin.Context) {
		lctx, err := lim.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
