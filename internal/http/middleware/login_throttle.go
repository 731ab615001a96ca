package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"
)

// LoginThrottle limits credential attempts per client IP with a token
// bucket. Idle buckets are evicted lazily on access.
type LoginThrottle struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // max tokens
	idle    time.Duration
	now     func() time.Time
	swept   time.Time
}

type bucket struct {
	tokens   float64
	lastTime time.Time
}

// NewLoginThrottle allows rate attempts/sec with the given burst per IP.
func NewLoginThrottle(rate float64, burst int) *LoginThrottle {
	return &LoginThrottle{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether one more attempt from ip is within the limit.
func (lt *LoginThrottle) Allow(ip string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	if now.Sub(lt.swept) > lt.idle {
		lt.sweep(now)
	}
	b, ok := lt.buckets[ip]
	if !ok {
		b = &bucket{tokens: float64(lt.burst), lastTime: now}
		lt.buckets[ip] = b
	}

	b.tokens += now.Sub(b.lastTime).Seconds() * lt.rate
	if b.tokens > float64(lt.burst) {
		b.tokens = float64(lt.burst)
	}
	b.lastTime = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (lt *LoginThrottle) sweep(now time.Time) {
	cutoff := now.Add(-lt.idle)
	for ip, b := range lt.buckets {
		if b.lastTime.Before(cutoff) {
			delete(lt.buckets, ip)
		}
	}
	lt.swept = now
}

// Middleware rejects attempts over the limit with 429.
func (lt *LoginThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !lt.Allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many login attempts. Try again shortly."})
			return
		}
		next.ServeHTTP(w, r)
	})
}
