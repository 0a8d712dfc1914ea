package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// scanRateLimit applies the fixed-window limiter to the guard scan
// endpoint, keyed by client IP. Fail-open unless configured otherwise: a
// broken limiter backend should not lock people out of the site.
func (s *Server) scanRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || s.cfg.ScanRateLimit <= 0 {
			c.Next()
			return
		}
		key := "scan:" + c.ClientIP()
		decision, err := s.limiter.Allow(c.Request.Context(), key, s.cfg.ScanRateLimit, s.cfg.ScanRateWindow())
		if err != nil {
			if s.cfg.RateLimitFailClosed {
				writeErrorCode(c, http.StatusServiceUnavailable, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
				c.Abort()
				return
			}
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many scans")
			c.Abort()
			return
		}
		c.Next()
	}
}
