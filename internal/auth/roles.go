package auth

import (
	"strings"

	"stockdesk/internal/models"
)

// RoleSet is a set of roles. The empty set admits any signed-in role.
type RoleSet map[models.UserRole]struct{}

func NewRoleSet(roles ...models.UserRole) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// ParseRoleSet reads a comma separated list, skipping unknown names.
func ParseRoleSet(s string) RoleSet {
	set := RoleSet{}
	for _, part := range strings.Split(s, ",") {
		r := models.UserRole(strings.ToLower(strings.TrimSpace(part)))
		if r.Valid() {
			set[r] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(r models.UserRole) bool {
	_, ok := s[r]
	return ok
}

// Admits reports whether a session with role r passes the set.
func (s RoleSet) Admits(r models.UserRole) bool {
	if !r.Valid() {
		return false
	}
	return len(s) == 0 || s.Has(r)
}

// DefaultRegistrationRoles are the roles open to self sign-up. Admins are seeded.
func DefaultRegistrationRoles() RoleSet {
	return NewRoleSet(models.RoleAssistant, models.RoleCashier)
}

// Sorted lists the set in declaration order. The empty set lists every role.
func (s RoleSet) Sorted() []models.UserRole {
	var out []models.UserRole
	for _, r := range models.AllRoles {
		if len(s) == 0 || s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
