package gate

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the lookup surface UserProvider needs from a repository
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

// UserProvider resolves session subjects to users through a store
type UserProvider struct {
	store     UserStore
	Validator func(*User) error
	logger    Logger
}

var _ UserFinder = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

// NewUserProviderFromRepository adapts the bun Users repository
func NewUserProviderFromRepository(repo Users) *UserProvider {
	return NewUserProvider(usersStoreAdapter{users: repo})
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// GetByIdentifier loads the user. Missing users come back as ErrUserNotFound
// so callers can tell "nobody" apart from a broken store.
func (u *UserProvider) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user").
			WithMetadata(map[string]any{"identifier": identifier})
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	if u.Validator != nil {
		if err := u.Validator(user); err != nil {
			u.logger.Warn("user rejected by validator", "user_id", user.ID.String(), "error", err)
			return nil, ErrUserNotFound
		}
	}

	return user, nil
}

type usersStoreAdapter struct {
	users Users
}

func (a usersStoreAdapter) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}
