// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the authorization level stored on an account and carried in access tokens.
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// rank orders roles; unknown roles are absent and rank zero.
var rank = map[UserRole]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Roles lists every known role, lowest first.
func Roles() []UserRole {
	return []UserRole{RoleUser, RoleModerator, RoleAdmin}
}

func (r UserRole) Valid() bool { return rank[r] > 0 }

func (r UserRole) String() string { return string(r) }

// AtLeast reports whether r is known and ranks at or above target.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.Valid() && rank[r] >= rank[target]
}
