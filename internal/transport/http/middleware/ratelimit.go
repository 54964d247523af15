package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"onboarding/internal/transport/http/api"
)

type rateKeyFunc func(r *http.Request) string

type rateBucket struct {
	count int
	reset time.Time
}

// fixedWindow counts requests per key and resets each key's counter after window.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   rateKeyFunc
	buckets map[string]*rateBucket
}

func newFixedWindow(limit int, window time.Duration, keyFn rateKeyFunc) *fixedWindow {
	return &fixedWindow{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		buckets: map[string]*rateBucket{},
	}
}

// RateLimit throttles every request by signed-in user, or by client IP for
// anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	rl := newFixedWindow(limit, window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter limits on login and on the
// mutations that reset data, call webhooks or record survey answers.
// Login gets a quarter of baseLimit per IP and per email; the mutations
// get half of baseLimit per actor.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	loginLimit := max(baseLimit/4, 1)
	loginByIP := newFixedWindow(loginLimit, window, clientIP)
	loginByEmail := newFixedWindow(loginLimit, window, loginEmailKey)
	byActor := newFixedWindow(max(baseLimit/2, 1), window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !loginByIP.allow(w, r) || !loginByEmail.allow(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !byActor.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *fixedWindow) allow(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	now := time.Now()

	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{reset: now.Add(rl.window)}
		rl.buckets[key] = bucket
	}
	bucket.count++
	count := bucket.count
	resetIn := ceilSeconds(bucket.reset.Sub(now))
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-count, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if count <= rl.limit {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	slog.Warn("rate limit exceeded", "key", key, "path", r.URL.Path, "method", r.Method, "limit", rl.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIP(r)
}

// clientIP prefers the first X-Forwarded-For hop over RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// loginEmailKey keys login attempts by the submitted email. The body is
// restored for the handler.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return clientIP(r)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil || strings.TrimSpace(payload.Email) == "" {
		return clientIP(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(payload.Email))
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

func sensitiveRateScope(r *http.Request) sensitiveScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return sensitiveScopeNone
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch path {
	case "/auth/login":
		return sensitiveScopeAuth
	case "/admin/reset", "/integrations/new-hire", "/feedback/surveys/trigger":
		return sensitiveScopeActor
	}
	if strings.HasPrefix(path, "/feedback/surveys/") && strings.HasSuffix(path, "/submit") {
		return sensitiveScopeActor
	}
	return sensitiveScopeNone
}
