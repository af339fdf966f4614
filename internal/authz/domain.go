package authz

import (
	"fmt"
	"sort"
	"strings"
)

// Role is a named permission category assignable to a user. Roles are
// declared once at startup through a Registry; declaration order defines
// the total order used for stable listing.
type Role struct {
	name string
	ord  int
}

// String returns the role name for display and persistence.
func (r Role) String() string { return r.name }

// Less reports whether r sorts before other in declaration order.
func (r Role) Less(other Role) bool { return r.ord < other.ord }

// Registry holds the finite set of roles the application declares.
type Registry struct {
	byName map[string]Role
	all    []Role
}

// NewRegistry declares the complete role set. Names must be non-empty
// and unique.
func NewRegistry(names ...string) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Role, len(names))}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("authz: empty role name at position %d", i)
		}
		if _, exists := reg.byName[name]; exists {
			return nil, fmt.Errorf("authz: duplicate role %q", name)
		}
		role := Role{name: name, ord: i}
		reg.byName[name] = role
		reg.all = append(reg.all, role)
	}
	return reg, nil
}

// Lookup resolves a role by name.
func (reg *Registry) Lookup(name string) (Role, bool) {
	role, ok := reg.byName[name]
	return role, ok
}

// All enumerates every declared role in declaration order.
func (reg *Registry) All() []Role {
	all := make([]Role, len(reg.all))
	copy(all, reg.all)
	return all
}

// RoleSet is the collection of roles held by one user. Membership is
// unordered; Roles iterates in declaration order so listings are stable.
type RoleSet struct {
	members map[string]Role
}

// NewRoleSet builds a set from the given roles, dropping duplicates.
func NewRoleSet(roles ...Role) RoleSet {
	members := make(map[string]Role, len(roles))
	for _, role := range roles {
		members[role.name] = role
	}
	return RoleSet{members: members}
}

// Has reports membership.
func (s RoleSet) Has(role Role) bool {
	_, ok := s.members[role.name]
	return ok
}

// Len returns the number of roles in the set.
func (s RoleSet) Len() int { return len(s.members) }

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s.members, other.members
	if len(large) < len(small) {
		small, large = large, small
	}
	for name := range small {
		if _, ok := large[name]; ok {
			return true
		}
	}
	return false
}

// Roles returns the members sorted by declaration order.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(s.members))
	for _, role := range s.members {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Less(roles[j]) })
	return roles
}

// Names returns the member names sorted by declaration order.
func (s RoleSet) Names() []string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.name
	}
	return names
}
