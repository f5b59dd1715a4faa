package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

// RateLimit allows limit requests per client IP in each window of length per.
// Rejected requests get 429 with Retry-After.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep time.Time
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			now := time.Now()
			mu.Lock()
			if now.Sub(lastSweep) > per {
				for k, b := range buckets {
					if now.After(b.until) {
						delete(buckets, k)
					}
				}
				lastSweep = now
			}
			b, ok := buckets[ip]
			if !ok || now.After(b.until) {
				b = &bucket{until: now.Add(per)}
				buckets[ip] = b
			}
			if b.count >= limit {
				retry := int(b.until.Sub(now).Seconds()) + 1
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			b.count++
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
