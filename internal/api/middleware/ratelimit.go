package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP with a token bucket
type RateLimiter struct {
	config   config.RateLimitConfig
	clients  map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   cfg,
		clients:  make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go rl.cleanupClients()
	}

	return rl
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())
		limit := fmt.Sprintf("%d", rl.config.RequestsPerMinute)

		if !limiter.Allow() {
			retryAfter := rl.getRetryAfter()

			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(retryAfter).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%.0f", math.Ceil(retryAfter.Seconds())))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:     "Rate limit exceeded",
				Message:   fmt.Sprintf("Too many requests. Try again in %v", retryAfter.Round(time.Second)),
				RequestID: c.GetString(RequestIDKey),
			})
			return
		}

		remaining := int(math.Max(0, math.Floor(limiter.Tokens())))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix()))

		c.Next()
	}
}

func (rl *RateLimiter) getLimiter(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lastSeen[clientID] = time.Now()

	if limiter, exists := rl.clients[clientID]; exists {
		return limiter
	}

	rps := rate.Limit(float64(rl.config.RequestsPerMinute) / 60.0)
	limiter := rate.NewLimiter(rps, rl.config.BurstSize)
	rl.clients[clientID] = limiter

	return limiter
}

// getRetryAfter estimates when the next token becomes available
func (rl *RateLimiter) getRetryAfter() time.Duration {
	tokensPerSecond := float64(rl.config.RequestsPerMinute) / 60.0
	if tokensPerSecond <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / tokensPerSecond)
}

// cleanupClients drops limiters of clients not seen for two intervals
func (rl *RateLimiter) cleanupClients() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.config.CleanupInterval * 2)
			for clientID, lastSeen := range rl.lastSeen {
				if lastSeen.Before(cutoff) {
					delete(rl.clients, clientID)
					delete(rl.lastSeen, clientID)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_clients":      len(rl.clients),
		"requests_per_minute": rl.config.RequestsPerMinute,
		"burst_size":          rl.config.BurstSize,
		"cleanup_interval":    rl.config.CleanupInterval.String(),
	}
}
