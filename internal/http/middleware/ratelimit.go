package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter throttles anonymous traffic per client address and signed-in
// traffic per staff user or portal customer.
type RateLimiter struct {
	enabled   bool
	logger    *zap.Logger
	anonymous func(http.Handler) http.Handler
	session   func(http.Handler) http.Handler
	freeIPs   map[string]struct{}
	freePaths []string
	freeTrees []string
}

// NewRateLimiter builds the limiter from cfg. Whitelisted paths ending in
// "/*" exempt the whole subtree.
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		enabled: cfg.Enabled,
		logger:  logger.Named("ratelimit"),
		freeIPs: make(map[string]struct{}, len(cfg.WhitelistIPs)),
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.freeIPs[ip] = struct{}{}
	}
	for _, p := range cfg.WhitelistPaths {
		if tree, ok := strings.CutSuffix(p, "/*"); ok {
			rl.freeTrees = append(rl.freeTrees, tree)
			continue
		}
		rl.freePaths = append(rl.freePaths, p)
	}

	rl.anonymous = httprate.Limit(cfg.RequestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) { return "ip:" + clientIP(r), nil }),
		httprate.WithLimitHandler(rl.reject),
	)
	rl.session = httprate.Limit(cfg.RequestsPerMinuteAuth, time.Minute,
		httprate.WithKeyFuncs(sessionKey),
		httprate.WithLimitHandler(rl.reject),
	)

	if cfg.Enabled {
		rl.logger.Info("rate limits active",
			zap.Int("anonymous_per_minute", cfg.RequestsPerMinute),
			zap.Int("session_per_minute", cfg.RequestsPerMinuteAuth),
			zap.Int("exempt_ips", len(cfg.WhitelistIPs)),
			zap.Int("exempt_paths", len(cfg.WhitelistPaths)),
		)
	}
	return rl
}

// Limit applies the session limit once authentication has run and falls back
// to the per-address limit for anonymous requests.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	bySession := rl.session(next)
	byAddress := rl.anonymous(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case rl.exempt(r):
			next.ServeHTTP(w, r)
		case hasSession(r):
			bySession.ServeHTTP(w, r)
		default:
			byAddress.ServeHTTP(w, r)
		}
	})
}

// LimitByIP limits every request by client address. It sits in front of the
// login endpoints where no session exists yet.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	byAddress := rl.anonymous(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		byAddress.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	if _, ok := rl.freeIPs[clientIP(r)]; ok {
		return true
	}
	for _, p := range rl.freePaths {
		if r.URL.Path == p {
			return true
		}
	}
	for _, tree := range rl.freeTrees {
		if r.URL.Path == tree || strings.HasPrefix(r.URL.Path, tree+"/") {
			return true
		}
	}
	return false
}

func hasSession(r *http.Request) bool {
	u, ok := auth.FromContext(r.Context())
	return ok && u != nil
}

// sessionKey separates portal customers from staff so a shared customer
// login cannot exhaust a staff member's budget.
func sessionKey(r *http.Request) (string, error) {
	u, ok := auth.FromContext(r.Context())
	switch {
	case !ok || u == nil:
		return "ip:" + clientIP(r), nil
	case u.CustomerID != nil:
		return "customer:" + strconv.FormatInt(*u.CustomerID, 10), nil
	default:
		return "user:" + strconv.FormatInt(u.UserID, 10), nil
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) reject(w http.ResponseWriter, r *http.Request) {
	key, _ := sessionKey(r)
	rl.logger.Warn("request throttled",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("key", key),
	)
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, domain.ErrorTypeTooManyRequests, "Too many requests. Please try again later.")
}

func writeError(w http.ResponseWriter, status int, errType, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, errType, http.StatusText(status), detail))
}
