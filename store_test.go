package gate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_SubscribeAndSet(t *testing.T) {
	store := gate.NewStateStore(gate.LoadingState())
	assert.True(t, store.Get().Loading)

	var got []gate.AuthState
	unsubscribe := store.Subscribe(func(s gate.AuthState) {
		got = append(got, s)
	})
	assert.Equal(t, 1, store.Subscribers())

	admin := &gate.User{Role: "admin"}
	store.Set(gate.SignedIn(admin))
	store.Set(gate.AnonymousState())

	require.Len(t, got, 2)
	assert.Same(t, admin, got[0].User)
	assert.Nil(t, got[1].User)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, store.Subscribers())

	store.Set(gate.LoadingState())
	assert.Len(t, got, 2)
	assert.True(t, store.Get().Loading)
}

func TestStateStore_NotifiesInOrder(t *testing.T) {
	store := gate.NewStateStore(gate.AnonymousState())

	var order []int
	store.Subscribe(func(gate.AuthState) { order = append(order, 1) })
	store.Subscribe(func(gate.AuthState) { order = append(order, 2) })
	store.Subscribe(nil)

	store.Set(gate.LoadingState())
	assert.Equal(t, []int{1, 2}, order)
}

func TestStateStore_CallbackMayReadStore(t *testing.T) {
	store := gate.NewStateStore(gate.AnonymousState())

	var seen gate.AuthState
	store.Subscribe(func(gate.AuthState) {
		seen = store.Get()
	})

	store.Set(gate.LoadingState())
	assert.True(t, seen.Loading)
}

func TestWatch_RerendersOnChange(t *testing.T) {
	store := gate.NewStateStore(gate.LoadingState())
	g := gate.New(nil)

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var outcomes []gate.Outcome
	views := make(chan gate.View[string], 8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		gate.Watch(ctx, g, store, "DASHBOARD", func(v gate.View[string]) {
			mu.Lock()
			outcomes = append(outcomes, v.Outcome)
			mu.Unlock()
			views <- v
		})
	}()

	first := <-views
	assert.Equal(t, gate.OutcomeLoading, first.Outcome)

	store.Set(gate.SignedIn(&gate.User{Role: "admin"}))
	second := <-views
	assert.Equal(t, gate.OutcomeAuthorized, second.Outcome)
	assert.Equal(t, "DASHBOARD", second.Children)

	store.Set(gate.AnonymousState())
	third := <-views
	assert.Equal(t, gate.OutcomeRedirect, third.Outcome)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Equal(t, 0, store.Subscribers())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []gate.Outcome{gate.OutcomeLoading, gate.OutcomeAuthorized, gate.OutcomeRedirect}, outcomes)
}
