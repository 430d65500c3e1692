package httpx

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIdleAfter is how long a client bucket may sit unused before a sweep drops it.
const clientIdleAfter = 10 * time.Minute

type clientBucket struct {
	tokens *rate.Limiter
	seen   time.Time
}

// ClientLimiter keeps one token bucket per client address. Login attempts are
// throttled through it so a single address cannot walk the code space.
type ClientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter allows burst requests per client, refilled at limit per second.
func NewClientLimiter(limit rate.Limit, burst int) *ClientLimiter {
	l := &ClientLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
	l.lastSweep = l.now()
	return l
}

// Allow takes one token from the client's bucket. Idle buckets are swept at
// most once per clientIdleAfter.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= clientIdleAfter {
		for key, b := range l.buckets {
			if now.Sub(b.seen) >= clientIdleAfter {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[client]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = b
	}
	b.seen = now

	return b.tokens.AllowN(now, 1)
}

// Tracked reports how many client buckets are currently held.
func (l *ClientLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// retryAfterSeconds is the time one token takes to refill, rounded up.
func (l *ClientLimiter) retryAfterSeconds() int {
	if l.limit <= 0 || l.limit == rate.Inf {
		return int(clientIdleAfter.Seconds())
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

// Throttle answers 429 with a Retry-After header once the caller's bucket is
// empty. The caller is keyed on RemoteAddr, which chi's RealIP has already
// rewritten when the service runs behind a proxy.
func Throttle(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientAddress(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfterSeconds()))
				WriteJSON(w, http.StatusTooManyRequests, ErrorBody{Error: "too many login attempts"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

const (
	corsAllowMethods  = "GET, POST, PATCH, OPTIONS"
	corsAllowHeaders  = "Content-Type, If-Match, X-User-Name"
	corsExposeHeaders = "ETag"
)

// corsPolicy holds the normalized origin allow-list.
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool
}

func newCORSPolicy(allowed []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]bool, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[origin] = true
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	return origin != "" && (p.anyOrigin || p.origins[origin])
}

// CORSMiddleware lets the configured browser origins call the API. The ballot
// ETag is exposed and If-Match allowed so a frontend can replace a ballot
// optimistically. Preflights are answered here and never reach the handlers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if policy.allows(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
