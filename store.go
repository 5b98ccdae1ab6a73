package gate

import (
	"context"
	"sync"
)

// StateStore holds the current AuthState for one subject and notifies
// subscribers whenever it changes.
type StateStore struct {
	mu     sync.Mutex
	state  AuthState
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(AuthState)
}

// NewStateStore creates a store seeded with initial
func NewStateStore(initial AuthState) *StateStore {
	return &StateStore{state: initial}
}

// Get returns the current snapshot
func (s *StateStore) Get() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the snapshot and notifies subscribers in subscription order.
// Callbacks run outside the lock so they may call Get or Set.
func (s *StateStore) Set(state AuthState) {
	s.mu.Lock()
	s.state = state
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

// Subscribe registers fn for future changes. The returned function removes
// the subscription and is safe to call more than once.
func (s *StateStore) Subscribe(fn func(AuthState)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *StateStore) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Watch renders children against the store right away and again after
// every change, until ctx is done. fn is never called after Watch returns.
func Watch[T any](ctx context.Context, g *AdminGate, store *StateStore, children T, fn func(View[T])) {
	brand := DefaultBrand()
	if g != nil {
		brand = g.brand
	}

	changes := make(chan AuthState, 1)
	unsubscribe := store.Subscribe(func(state AuthState) {
		// keep only the latest snapshot if the watcher is behind
		select {
		case changes <- state:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- state:
			default:
			}
		}
	})
	defer unsubscribe()

	fn(RenderWithBrand(brand, children, store.Get()))

	for {
		select {
		case <-ctx.Done():
			return
		case state := <-changes:
			fn(RenderWithBrand(brand, children, state))
		}
	}
}
