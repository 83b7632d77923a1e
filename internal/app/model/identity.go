package model

// Identity is the caller resolved by the authentication gate. The role is
// read from the users table on every request, never from the token.
type Identity struct {
	UserID uint
	Role   UserRole
}

// HasRole reports whether the identity holds any of roles.
func (i Identity) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// CanModify is the ownership-or-admin rule applied to every mutation of an
// owned resource.
func (i Identity) CanModify(ownerID uint) bool {
	if i.UserID == 0 {
		return false
	}
	return i.UserID == ownerID || i.Role == RoleAdmin
}
