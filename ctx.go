package gate

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}
var stateCtxKey = &contextKey{"auth_state"}

// UserLocalsKey is the router locals key holding the admin *User
var UserLocalsKey = "admin_user"

type contextKey struct {
	name string
}

// WithUser sets the User in the given context
func WithUser(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// UserFromContext finds the user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// WithState sets the AuthState in the given context
func WithState(r context.Context, state AuthState) context.Context {
	return context.WithValue(r, stateCtxKey, state)
}

// StateFromContext returns the AuthState stored by the middleware
func StateFromContext(ctx context.Context) (AuthState, bool) {
	raw, ok := ctx.Value(stateCtxKey).(AuthState)
	return raw, ok
}

// UserFromRouter extracts the admin user stored by the middleware
func UserFromRouter(ctx router.Context) (*User, bool) {
	raw := ctx.Locals(UserLocalsKey)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok && user != nil
}
