// Package ratelimit protects the credential endpoints from brute forcing.
// Limits are per-process and in memory; a multi-instance deployment gets
// per-instance budgets.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter is a fixed-window counter keyed by an arbitrary string. Safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.sweep()
	return l
}

// Allow records an attempt for key and reports whether it is within budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for key, used after a successful sign-in so a
// user who finally remembered their password is not locked out.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows so the map does not grow without bound.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.duration * 2)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the caller's IP, preferring reverse-proxy headers over
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SigninLimiter tracks both IP and email budgets, so neither a single IP
// spraying many accounts nor many IPs targeting one account gets far.
type SigninLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewSigninLimiter uses the default budgets: 10 attempts per IP per minute
// and 5 attempts per email per five minutes.
func NewSigninLimiter() *SigninLimiter {
	return &SigninLimiter{
		ip:    New(10, time.Minute),
		email: New(5, 5*time.Minute),
	}
}

// Check records an attempt and reports whether it is allowed. A nil
// limiter allows everything, so tests can skip rate limit wiring.
func (sl *SigninLimiter) Check(r *http.Request, email string) bool {
	if sl == nil {
		return true
	}
	if !sl.ip.Allow(ClientIP(r)) {
		return false
	}
	if email != "" {
		return sl.email.Allow(strings.ToLower(strings.TrimSpace(email)))
	}
	return true
}

// Success clears the email budget after a successful sign-in.
func (sl *SigninLimiter) Success(email string) {
	if sl == nil || email == "" {
		return
	}
	sl.email.Reset(strings.ToLower(strings.TrimSpace(email)))
}
