package auth

import (
	"context"

	"github.com/glanzwerk/crm/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      int64
	DisplayName string
	Email       string
	Role        domain.UserRole
	// CustomerID is set for portal sessions and scopes every query to that customer
	CustomerID *int64
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsStaff is true for accounts that work on the back office side
func (u *UserContext) IsStaff() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleStaff, domain.RoleSystem)
}

// IsAdmin is true for administrators and the API key user
func (u *UserContext) IsAdmin() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleSystem)
}

// CustomerScope returns the customer every query must be limited to, or nil
// when the user may see all customers.
func (u *UserContext) CustomerScope() *int64 {
	if u.Role == domain.RoleCustomer {
		if u.CustomerID == nil {
			// a customer session without a customer sees nothing
			none := int64(-1)
			return &none
		}
		return u.CustomerID
	}
	return nil
}

// CustomerScopeFromContext is the scope of the user in ctx. Requests
// without a user are internal (jobs, seeding) and unscoped.
func CustomerScopeFromContext(ctx context.Context) *int64 {
	if u, ok := FromContext(ctx); ok {
		return u.CustomerScope()
	}
	return nil
}

// ActorID returns the acting user id for audit fields, or nil
func ActorID(ctx context.Context) *int64 {
	u, ok := FromContext(ctx)
	if !ok || u.UserID == 0 || u.Role == domain.RoleCustomer {
		return nil
	}
	id := u.UserID
	return &id
}
