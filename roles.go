package gate

// AdminRoleName is the only role name that opens the admin area.
const AdminRoleName = "admin"

// RoleKind enumerates the cases of Role
type RoleKind int

const (
	// RoleKindOther is any role that is not admin, including the empty role
	RoleKindOther RoleKind = iota
	// RoleKindAdmin is the admin role
	RoleKindAdmin
)

func (k RoleKind) String() string {
	switch k {
	case RoleKindAdmin:
		return "admin"
	case RoleKindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Role is a tagged variant: either Admin or Other(name).
// The zero value is Other("").
type Role struct {
	kind RoleKind
	name string
}

// RoleAdmin is the admin role value
var RoleAdmin = Role{kind: RoleKindAdmin, name: AdminRoleName}

// OtherRole builds the non admin case carrying the raw role name.
// Passing "admin" still yields RoleAdmin so the two cases never overlap.
func OtherRole(name string) Role {
	return ParseRole(name)
}

// ParseRole maps a raw role string to a Role. Matching is exact and case
// sensitive: only "admin" is RoleKindAdmin.
func ParseRole(raw string) Role {
	if raw == AdminRoleName {
		return RoleAdmin
	}
	return Role{kind: RoleKindOther, name: raw}
}

// Kind returns the variant tag
func (r Role) Kind() RoleKind {
	return r.kind
}

// Name returns the raw role name
func (r Role) Name() string {
	return r.name
}

// IsAdmin reports whether r is the admin case
func (r Role) IsAdmin() bool {
	switch r.kind {
	case RoleKindAdmin:
		return true
	case RoleKindOther:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	if r.kind == RoleKindAdmin {
		return AdminRoleName
	}
	return r.name
}
