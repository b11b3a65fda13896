package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL     = 3 * time.Minute
	limiterSweepPeriod = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > limiterSweepPeriod {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

var errTooManyRequests = apperror.New(
	apperror.CodeTooManyRequests,
	"Too many requests, slow down",
	http.StatusTooManyRequests,
)

func rateLimit(set *limiterSet, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !set.allow(keyFn(c)) {
			response.Error(c, errTooManyRequests.HTTPStatus, errTooManyRequests.Code, errTooManyRequests.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByIP limits each client IP to rps requests per second with the
// given burst.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(newLimiterSet(rps, burst), func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitBySession limits per session and falls back to the client IP for
// anonymous requests. It must run after SessionMiddleware.
func RateLimitBySession(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(newLimiterSet(rps, burst), func(c *gin.Context) string {
		if id := c.GetString(SessionKey); id != "" {
			return "session:" + id
		}
		return "ip:" + c.ClientIP()
	})
}
