package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "crm-test",
		TokenTTL:  60,
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := testTokens()
	customerID := int64(42)

	token, expiresAt, err := tokens.Issue(&auth.UserContext{
		UserID:      42,
		DisplayName: "Erika Mustermann",
		Email:       "erika@example.com",
		Role:        domain.RoleCustomer,
		CustomerID:  &customerID,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	user, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.UserID)
	assert.Equal(t, "Erika Mustermann", user.DisplayName)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	require.NotNil(t, user.CustomerID)
	assert.Equal(t, int64(42), *user.CustomerID)
}

func TestTokenManager_Rejects(t *testing.T) {
	tokens := testTokens()

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "other", Issuer: "crm-test", TokenTTL: 60})
		token, _, err := other.Issue(&auth.UserContext{UserID: 1, Role: domain.RoleStaff})
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := auth.Claims{
			Role: domain.RoleStaff,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "crm-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("system role cannot be minted", func(t *testing.T) {
		token, _, err := tokens.Issue(&auth.UserContext{UserID: 1, Role: domain.RoleSystem})
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("", "s3cret"))
}

func TestUserContext_CustomerScope(t *testing.T) {
	id := int64(7)

	staff := &auth.UserContext{Role: domain.RoleStaff}
	assert.Nil(t, staff.CustomerScope())
	assert.True(t, staff.IsStaff())
	assert.False(t, staff.IsAdmin())

	customer := &auth.UserContext{Role: domain.RoleCustomer, CustomerID: &id}
	require.NotNil(t, customer.CustomerScope())
	assert.Equal(t, int64(7), *customer.CustomerScope())
	assert.False(t, customer.IsStaff())

	orphan := &auth.UserContext{Role: domain.RoleCustomer}
	require.NotNil(t, orphan.CustomerScope())
	assert.Equal(t, int64(-1), *orphan.CustomerScope())
}

func TestMiddleware_Authenticate(t *testing.T) {
	tokens := testTokens()
	m := auth.NewMiddleware(tokens, "test-api-key", zap.NewNop())

	var captured *auth.UserContext
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	staffToken, _, err := tokens.Issue(&auth.UserContext{UserID: 3, DisplayName: "Max", Role: domain.RoleStaff})
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantRole   domain.UserRole
	}{
		{"api key", map[string]string{"x-api-key": "test-api-key"}, http.StatusOK, domain.RoleSystem},
		{"invalid api key", map[string]string{"x-api-key": "nope"}, http.StatusUnauthorized, ""},
		{"bearer token", map[string]string{"Authorization": "Bearer " + staffToken}, http.StatusOK, domain.RoleStaff},
		{"lowercase bearer", map[string]string{"Authorization": "bearer " + staffToken}, http.StatusOK, domain.RoleStaff},
		{"missing header", nil, http.StatusUnauthorized, ""},
		{"basic auth", map[string]string{"Authorization": "Basic abc"}, http.StatusUnauthorized, ""},
		{"bad token", map[string]string{"Authorization": "Bearer abc"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, tt.wantRole, captured.Role)
			} else {
				assert.Nil(t, captured)
				assert.Contains(t, w.Body.String(), domain.ErrorTypeUnauthorized)
			}
		})
	}
}

func TestMiddleware_RequireStaff(t *testing.T) {
	m := auth.NewMiddleware(testTokens(), "", zap.NewNop())
	handler := m.RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	id := int64(1)
	tests := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{"no user", nil, http.StatusForbidden},
		{"customer", &auth.UserContext{Role: domain.RoleCustomer, CustomerID: &id}, http.StatusForbidden},
		{"staff", &auth.UserContext{Role: domain.RoleStaff}, http.StatusNoContent},
		{"system", &auth.SystemUser, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), tt.user))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
