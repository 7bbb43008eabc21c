package model

import "strings"

// RoleKind is the closed set of role names stored in `roles.role_enum`.
type RoleKind string

const (
	RoleAdmin RoleKind = "ADMIN"
	RoleUser  RoleKind = "USER"
)

// roleKinds is the lookup table used to match incoming role names.
var roleKinds = map[string]RoleKind{
	string(RoleAdmin): RoleAdmin,
	string(RoleUser):  RoleUser,
}

// ParseRoleKind matches a role name against the known kinds. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseRoleKind(name string) (RoleKind, bool) {
	k, ok := roleKinds[strings.ToUpper(strings.TrimSpace(name))]
	return k, ok
}

// Authority returns the capability string carried in tokens, e.g. ROLE_ADMIN.
func (k RoleKind) Authority() string {
	return "ROLE_" + string(k)
}

// Role represents a row in the `roles` table. Roles are seeded and never
// created through the API.
//
// Fields:
//
//	ID   – numeric identifier of the role.
//	Kind – role name (ADMIN or USER).
type Role struct {
	ID   uint64   `db:"id"`
	Kind RoleKind `db:"role_enum"`
}

// User represents an application user record as stored in the `users`
// table, joined with its role. The four account-state flags are stored
// as-is; they are all true for users created through sign-up.
//
// Fields:
//
//	ID                    – primary key identifier of the user.
//	Name                  – display name.
//	Email                 – unique email address.
//	PasswordHash          – bcrypt hashed password.
//	Role                  – the role the user references through users.role_id.
//	Enabled               – users.is_enabled.
//	AccountNonExpired     – users.account_non_expired.
//	AccountNonLocked      – users.account_non_locked.
//	CredentialsNonExpired – users.credentials_non_expired.
type User struct {
	ID                    uint64 `db:"id"`
	Name                  string `db:"name"`
	Email                 string `db:"email"`
	PasswordHash          string `db:"password"`
	Role                  Role   `db:"role"`
	Enabled               bool   `db:"is_enabled"`
	AccountNonExpired     bool   `db:"account_non_expired"`
	AccountNonLocked      bool   `db:"account_non_locked"`
	CredentialsNonExpired bool   `db:"credentials_non_expired"`
}
