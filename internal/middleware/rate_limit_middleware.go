package middleware

import (
	"strconv"
	"sync"
	"time"

	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"
)

const rateLimitWindow = time.Minute

// localLimiter holds one token bucket per client. It serves requests when Redis is
// unavailable.
type localLimiter struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*rate.Limiter
}

func newLocalLimiter(perMinute int) *localLimiter {
	return &localLimiter{perMin: perMinute, limiters: make(map[string]*rate.Limiter)}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(rateLimitWindow/time.Duration(l.perMin)), l.perMin)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// RateLimiter limits requests per client per minute. Authenticated clients are keyed by
// user id, anonymous ones by IP.
func RateLimiter(scope string, cache services.CacheService, limit int, log *logger.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = utils.DefaultRateLimit
	}
	fallback := newLocalLimiter(limit)

	return func(c *gin.Context) {
		client := "ip:" + c.ClientIP()
		if id, ok := c.Get(utils.ContextUserID); ok {
			if oid, ok := id.(primitive.ObjectID); ok {
				client = "user:" + oid.Hex()
			}
		}
		key := scope + ":" + client

		if cache != nil {
			result, err := cache.CheckRateLimit(c.Request.Context(), key, int64(limit), rateLimitWindow)
			if err == nil {
				c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
				c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
				if !result.Allowed {
					retryAfter := int(result.RetryAfter.Seconds())
					if retryAfter < 1 {
						retryAfter = 1
					}
					tooManyRequests(c, retryAfter)
					return
				}
				c.Next()
				return
			}
			log.WithError(err).WithField("scope", scope).Warn("Rate limit store unavailable, using local limiter")
		}

		if !fallback.allow(key) {
			tooManyRequests(c, int(rateLimitWindow.Seconds()/float64(limit))+1)
			return
		}
		c.Next()
	}
}

// AdminLimiter applies the admin budget to the admin surface.
func AdminLimiter(cache services.CacheService, limit int, log *logger.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = utils.AdminRateLimit
	}
	return RateLimiter("admin", cache, limit, log)
}

// PublicLimiter applies the default budget to everything else.
func PublicLimiter(cache services.CacheService, limit int, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter("public", cache, limit, log)
}

func tooManyRequests(c *gin.Context, retryAfterSeconds int) {
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	utils.AppErrorResponse(c, utils.NewTooManyRequestsError("rate limit exceeded"))
	c.Abort()
}
