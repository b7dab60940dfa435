package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Entries idle longer than this are dropped so the per-IP map does not
// grow for the life of the process.
const limiterIdleTTL = 10 * time.Minute

type ipClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	clients   map[string]*ipClient
	lastSweep time.Time
}

func newIPLimiters(rps float64, burst int, ttl time.Duration) *ipLimiters {
	return &ipLimiters{
		rps:       rate.Limit(rps),
		burst:     burst,
		ttl:       ttl,
		clients:   make(map[string]*ipClient),
		lastSweep: time.Now(),
	}
}

func (l *ipLimiters) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		l.sweepLocked(now)
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &ipClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// sweepLocked drops idle entries; caller holds the mutex.
func (l *ipLimiters) sweepLocked(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.ttl {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit applies a per-client-IP token bucket. Used on the auth
// endpoints to slow down confirmation-code guessing.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(rps, burst, limiterIdleTTL)

	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
