package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per peer address. Forwarded headers are
// not read here; behind a trusted proxy the router rewrites RemoteAddr first.
type RateLimiter struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	perMin    int
	lastSweep time.Time
	now       func() time.Time
	logger    *zap.Logger
}

func NewRateLimiter(perMin int, logger *zap.Logger) *RateLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		perMin:   perMin,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *RateLimiter) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep drops idle buckets, at most once per TTL. Caller holds mu.
func (s *RateLimiter) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < limiterIdleTTL {
		return
	}
	s.lastSweep = now
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(s.limiters, ip)
		}
	}
}

func (s *RateLimiter) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

func (s *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.getLimiter(ip).Allow() {
			s.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			writeJSONError(w, http.StatusTooManyRequests, "Troppi tentativi, riprova più tardi")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
