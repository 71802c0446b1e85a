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
	DefaultLoginRequestsPerMinute = 10
	DefaultMaxAccountFailures     = 5
	DefaultMaxIPFailures          = 20
	DefaultLockoutDuration        = 15 * time.Minute
	MaxLockoutDuration            = time.Hour

	// Failures older than this no longer count towards a lockout.
	failureWindow = 15 * time.Minute
	// A quiet period this long after a lockout resets the escalation.
	escalationMemory = 24 * time.Hour
)

// strikes counts failed logins against one key and escalates lockouts.
type strikes struct {
	failures     int
	windowStart  time.Time
	lockouts     int
	lockedUntil  time.Time
	lastActivity time.Time
}

func (s *strikes) remaining(now time.Time) time.Duration {
	if s == nil || !now.Before(s.lockedUntil) {
		return 0
	}
	return s.lockedUntil.Sub(now)
}

// AuthLimiter guards register and login.
//
// Every request is throttled per client IP. Failed logins count against the
// canonical username and against the client IP. Each lockout of the same key
// lasts longer than the last, up to MaxLockoutDuration.
type AuthLimiter struct {
	mu       sync.Mutex
	requests map[string]*ipRequests
	accounts map[string]*strikes
	sources  map[string]*strikes

	requestLimit       rate.Limit
	requestBurst       int
	maxAccountFailures int
	maxIPFailures      int
	baseLockout        time.Duration
	now                func() time.Time
}

type ipRequests struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewAuthLimiter() *AuthLimiter {
	return &AuthLimiter{
		requests:           make(map[string]*ipRequests),
		accounts:           make(map[string]*strikes),
		sources:            make(map[string]*strikes),
		requestLimit:       rate.Limit(float64(DefaultLoginRequestsPerMinute) / 60.0),
		requestBurst:       DefaultLoginRequestsPerMinute,
		maxAccountFailures: DefaultMaxAccountFailures,
		maxIPFailures:      DefaultMaxIPFailures,
		baseLockout:        DefaultLockoutDuration,
		now:                time.Now,
	}
}

// Middleware throttles requests per client IP.
func (l *AuthLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allowRequest(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}

func (l *AuthLimiter) allowRequest(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.requests[ip]
	if !ok {
		entry = &ipRequests{limiter: rate.NewLimiter(l.requestLimit, l.requestBurst)}
		l.requests[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// LockedFor returns how long logins for username from ip stay blocked, or 0.
func (l *AuthLimiter) LockedFor(ip, username string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	return max(
		l.accounts[auth.CanonicalUsername(username)].remaining(now),
		l.sources[ip].remaining(now),
	)
}

// RecordFailure counts a wrong password against both the account and the IP.
func (l *AuthLimiter) RecordFailure(ip, username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.strike(l.accounts, auth.CanonicalUsername(username), l.maxAccountFailures, now)
	l.strike(l.sources, ip, l.maxIPFailures, now)
}

// RecordSuccess clears the account's failures. The IP's failures stay.
func (l *AuthLimiter) RecordSuccess(_, username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.accounts, auth.CanonicalUsername(username))
}

func (l *AuthLimiter) strike(table map[string]*strikes, key string, limit int, now time.Time) {
	s, ok := table[key]
	if !ok {
		s = &strikes{}
		table[key] = s
	}
	if s.remaining(now) > 0 {
		return
	}

	if s.failures >= limit || now.Sub(s.windowStart) > failureWindow {
		s.failures = 0
		s.windowStart = now
	}
	s.failures++
	s.lastActivity = now

	if s.failures >= limit {
		s.lockouts++
		s.lockedUntil = now.Add(min(l.baseLockout*time.Duration(s.lockouts), MaxLockoutDuration))
	}
}

// Cleanup drops idle request buckets and failure records nobody has touched
// for escalationMemory.
func (l *AuthLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for ip, entry := range l.requests {
		if now.Sub(entry.lastSeen) > idleLimiterTTL {
			delete(l.requests, ip)
		}
	}
	for _, table := range []map[string]*strikes{l.accounts, l.sources} {
		for key, s := range table {
			if s.remaining(now) == 0 && now.Sub(s.lastActivity) > escalationMemory {
				delete(table, key)
			}
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *AuthLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
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
