package gate

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-auth-gate/middleware/jwtware"
	"github.com/goliatone/go-router"
	"golang.org/x/sync/singleflight"
)

// Resolver turns requests into AuthState snapshots. User lookups run in the
// background, one per subject at a time; a request that cannot wait for a
// lookup sees a loading state instead.
type Resolver struct {
	lookup        jwtware.Lookup
	validator     TokenValidator
	finder        UserFinder
	waitBudget    time.Duration
	lookupTimeout time.Duration
	cacheTTL      time.Duration
	logger        Logger
	metrics       Metrics
	now           func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]cacheEntry
	stores  map[string]*StateStore
}

type cacheEntry struct {
	state   AuthState
	expires time.Time
}

var _ StateResolver = (*Resolver)(nil)

// NewResolver creates a Resolver. finder may be nil, in which case the
// token role claim is trusted and no lookup happens.
func NewResolver(cfg Config, validator TokenValidator, finder UserFinder) *Resolver {
	if cfg == nil {
		cfg = DefaultOptions()
	}
	return &Resolver{
		lookup: jwtware.Lookup{
			TokenLookup: cfg.GetTokenLookup(),
			AuthScheme:  cfg.GetAuthScheme(),
		},
		validator:     validator,
		finder:        finder,
		waitBudget:    orDefault(cfg.GetWaitBudget(), DefaultWaitBudget),
		lookupTimeout: orDefault(cfg.GetLookupTimeout(), DefaultLookupTimeout),
		cacheTTL:      orDefault(cfg.GetCacheTTL(), DefaultCacheTTL),
		logger:        defLogger{},
		metrics:       noopMetrics{},
		now:           time.Now,
		entries:       make(map[string]cacheEntry),
		stores:        make(map[string]*StateStore),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (r *Resolver) WithLogger(l Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

func (r *Resolver) WithMetrics(m Metrics) *Resolver {
	if m != nil {
		r.metrics = m
	}
	return r
}

// Resolve reads the session token from the request and resolves it
func (r *Resolver) Resolve(ctx router.Context) (AuthState, error) {
	raw, err := r.lookup.Extract(ctx)
	if err != nil || raw == "" {
		return AnonymousState(), nil
	}

	if r.validator == nil {
		return AnonymousState(), ErrSigningKeyMissing
	}

	claims, err := r.validator.Validate(raw)
	if err != nil {
		r.logger.Debug("session token rejected", "error", err, "expired", IsTokenExpiredError(err))
		return AnonymousState(), nil
	}

	return r.ResolveClaims(ctx.Context(), claims)
}

// ResolveClaims resolves already validated claims
func (r *Resolver) ResolveClaims(ctx context.Context, claims AuthClaims) (AuthState, error) {
	if claims == nil {
		return AnonymousState(), nil
	}

	if r.finder == nil {
		return SignedIn(UserFromClaims(claims)), nil
	}

	subject := claims.UserID()
	if subject == "" {
		return AnonymousState(), nil
	}

	if state, ok := r.cached(subject); ok {
		return state, nil
	}

	ch := r.group.DoChan(subject, func() (any, error) {
		return r.load(subject)
	})

	timer := time.NewTimer(r.waitBudget)
	defer timer.Stop()

	select {
	case res := <-ch:
		state, _ := res.Val.(AuthState)
		return state, res.Err
	case <-timer.C:
		return LoadingState(), nil
	case <-ctx.Done():
		return LoadingState(), nil
	}
}

// Store returns the reactive store for subject. It starts as loading and
// receives every state the resolver settles for that subject.
func (r *Resolver) Store(subject string) *StateStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[subject]
	if !ok {
		initial := LoadingState()
		if entry, ok := r.entries[subject]; ok && r.now().Before(entry.expires) {
			initial = entry.state
		}
		store = NewStateStore(initial)
		r.stores[subject] = store
	}
	return store
}

// Invalidate drops the cached state for subject so the next request
// triggers a fresh lookup.
func (r *Resolver) Invalidate(subject string) {
	r.mu.Lock()
	delete(r.entries, subject)
	store := r.stores[subject]
	r.mu.Unlock()

	if store != nil {
		store.Set(LoadingState())
	}
}

func (r *Resolver) cached(subject string) (AuthState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[subject]
	if !ok {
		return AuthState{}, false
	}
	if !r.now().Before(entry.expires) {
		delete(r.entries, subject)
		return AuthState{}, false
	}
	return entry.state, true
}

// load runs detached from the request so a request giving up does not
// cancel the lookup other requests are waiting on.
func (r *Resolver) load(subject string) (AuthState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.lookupTimeout)
	defer cancel()

	started := r.now()
	user, err := r.finder.GetByIdentifier(ctx, subject)
	took := r.now().Sub(started)

	if err != nil {
		if IsUserNotFound(err) {
			r.metrics.LookupFinished(LookupNotFound, took)
			state := AnonymousState()
			r.settle(subject, state)
			return state, nil
		}
		r.metrics.LookupFinished(LookupError, took)
		// failures are not cached, the next request retries
		state := AnonymousState()
		r.publish(subject, state)
		return state, lookupFailed(err, subject)
	}

	r.metrics.LookupFinished(LookupFound, took)
	state := SignedIn(user)
	r.settle(subject, state)
	return state, nil
}

func (r *Resolver) settle(subject string, state AuthState) {
	now := r.now()

	r.mu.Lock()
	for key, entry := range r.entries {
		if !now.Before(entry.expires) {
			delete(r.entries, key)
		}
	}
	r.entries[subject] = cacheEntry{state: state, expires: now.Add(r.cacheTTL)}
	r.mu.Unlock()

	r.publish(subject, state)
}

func (r *Resolver) publish(subject string, state AuthState) {
	r.mu.Lock()
	store := r.stores[subject]
	r.mu.Unlock()

	if store != nil {
		store.Set(state)
	}
}
