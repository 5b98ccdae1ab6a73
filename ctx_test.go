package gate_test

import (
	"context"
	"testing"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := gate.UserFromContext(ctx)
	assert.False(t, ok)

	_, ok = gate.UserFromContext(gate.WithUser(ctx, nil))
	assert.False(t, ok)

	user := &gate.User{Role: "admin"}
	got, ok := gate.UserFromContext(gate.WithUser(ctx, user))
	assert.True(t, ok)
	assert.Same(t, user, got)
}

func TestStateContext(t *testing.T) {
	_, ok := gate.StateFromContext(context.Background())
	assert.False(t, ok)

	state, ok := gate.StateFromContext(gate.WithState(context.Background(), gate.LoadingState()))
	assert.True(t, ok)
	assert.True(t, state.Loading)
}

func TestUserFromRouter(t *testing.T) {
	ctx := NewFakeContext("GET", "/admin")

	_, ok := gate.UserFromRouter(ctx)
	assert.False(t, ok)

	ctx.Locals(gate.UserLocalsKey, "not a user")
	_, ok = gate.UserFromRouter(ctx)
	assert.False(t, ok)

	ctx.Locals(gate.UserLocalsKey, &gate.User{Role: "admin"})
	user, ok := gate.UserFromRouter(ctx)
	assert.True(t, ok)
	assert.True(t, user.IsAdmin())
}
