package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/wikistars5/wikistars5/internal/auth"
)

const (
	DefaultWritesPerMinute = 30
	DefaultWriteBurst      = 10
	idleLimiterTTL         = 10 * time.Minute
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// WriteLimiter is a per-user token bucket for votes, comments and content
// submissions. Anonymous requests pass through; auth middleware rejects them.
type WriteLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*userLimiter
	limit    rate.Limit
	burst    int
}

func NewWriteLimiter(perMinute, burst int) *WriteLimiter {
	if perMinute <= 0 {
		perMinute = DefaultWritesPerMinute
	}
	if burst <= 0 {
		burst = DefaultWriteBurst
	}
	return &WriteLimiter{
		limiters: make(map[int64]*userLimiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *WriteLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := auth.UserID(c)
			if userID == 0 {
				return next(c)
			}
			if !l.allow(userID) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "slow down, too many changes in a short time")
			}
			return next(c)
		}
	}
}

func (l *WriteLimiter) allow(userID int64) bool {
	l.mu.Lock()
	entry, ok := l.limiters[userID]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// Cleanup forgets users that have been idle for a while.
func (l *WriteLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-idleLimiterTTL)
	for id, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, id)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *WriteLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}
