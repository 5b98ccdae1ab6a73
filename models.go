package gate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the subject the gate inspects. Only Role matters to the
// decision policy, the remaining fields are carried for handlers and views.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          string         `bun:"user_role,notnull" json:"user_role,omitempty"`
	Username      string         `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string         `bun:"email,notnull,unique" json:"email,omitempty"`
	DisplayName   string         `bun:"display_name" json:"display_name,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// GateRole parses the stored role. A nil user has the zero Role.
func (u *User) GateRole() Role {
	if u == nil {
		return Role{}
	}
	return ParseRole(u.Role)
}

// IsAdmin is a nil safe shorthand for GateRole().IsAdmin()
func (u *User) IsAdmin() bool {
	return u.GateRole().IsAdmin()
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// AuthState is a snapshot produced by an auth provider. A nil User means
// nobody is signed in. Loading means the provider has not settled yet.
type AuthState struct {
	User    *User
	Loading bool
}

// LoadingState is the snapshot of a provider that has not resolved yet
func LoadingState() AuthState {
	return AuthState{Loading: true}
}

// AnonymousState is the snapshot of a settled provider with no user
func AnonymousState() AuthState {
	return AuthState{}
}

// SignedIn is the snapshot of a settled provider with user u
func SignedIn(u *User) AuthState {
	return AuthState{User: u}
}
