package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"go.uber.org/zap"
)

// SystemUser is the identity attached to requests authenticated by API key
var SystemUser = UserContext{
	UserID:      0,
	DisplayName: "System",
	Email:       "system@glanzwerk.local",
	Role:        domain.RoleSystem,
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, apiKey string, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		apiKey: apiKey,
		logger: logger,
	}
}

// Authenticate accepts either an x-api-key header or a Bearer session token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if !m.validateAPIKey(apiKey) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "invalid API key")
				return
			}

			user := SystemUser
			m.logger.Debug("request authenticated",
				zap.String("path", r.URL.Path),
				zap.String("auth_type", "api_key"),
				zap.Duration("auth_duration", time.Since(start)),
			)
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), &user)))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "missing or malformed authorization header")
			return
		}

		userCtx, err := m.tokens.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.Int64("user_id", userCtx.UserID),
			zap.String("role", string(userCtx.Role)),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireRole middleware ensures user has one of the given roles
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				writeProblem(w, http.StatusForbidden, domain.ErrorTypeForbidden, "no user context")
				return
			}
			if !userCtx.HasAnyRole(roles...) {
				writeProblem(w, http.StatusForbidden, domain.ErrorTypeForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff lets admins, staff and the API key user through
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return m.RequireRole(domain.RoleAdmin, domain.RoleStaff, domain.RoleSystem)(next)
}

// RequireCustomer admits only portal sessions
func (m *Middleware) RequireCustomer(next http.Handler) http.Handler {
	return m.RequireRole(domain.RoleCustomer)(next)
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeProblem(w http.ResponseWriter, status int, errType, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, errType, http.StatusText(status), detail))
}
