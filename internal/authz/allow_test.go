package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry("admin", "editor", "viewer")
	require.NoError(t, err)
	return reg
}

func mustRole(t *testing.T, reg *Registry, name string) Role {
	t.Helper()
	role, ok := reg.Lookup(name)
	require.True(t, ok, "role %s not declared", name)
	return role
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry("admin", "admin")
	require.Error(t, err)

	_, err = NewRegistry("admin", "")
	require.Error(t, err)
}

func TestRoleSetStableOrder(t *testing.T) {
	reg := testRegistry(t)
	viewer := mustRole(t, reg, "viewer")
	admin := mustRole(t, reg, "admin")

	set := NewRoleSet(viewer, admin, viewer)
	require.Equal(t, 2, set.Len())
	require.Equal(t, []string{"admin", "viewer"}, set.Names())
}

func TestEvaluateForbiddenAlwaysDenies(t *testing.T) {
	reg := testRegistry(t)
	admin := mustRole(t, reg, "admin")

	subjects := []Subject{
		Anonymous(),
		{Authenticated: true},
		{Authenticated: true, Roles: NewRoleSet(admin)},
	}
	for _, subject := range subjects {
		decision := Evaluate(subject, Forbidden())
		require.Equal(t, DecisionUnauthorized, decision.Kind)
	}
}

func TestEvaluateZeroAllowIsForbidden(t *testing.T) {
	decision := Evaluate(Subject{Authenticated: true}, Allow{})
	require.Equal(t, DecisionUnauthorized, decision.Kind)
}

func TestEvaluateUnrestricted(t *testing.T) {
	require.True(t, Evaluate(Anonymous(), Unrestricted()).Authorized())
	require.True(t, Evaluate(Subject{Authenticated: true}, Unrestricted()).Authorized())
}

func TestEvaluateAuthenticated(t *testing.T) {
	require.Equal(t, DecisionAuthnRequired, Evaluate(Anonymous(), Authenticated()).Kind)
	require.True(t, Evaluate(Subject{Authenticated: true}, Authenticated()).Authorized())
}

func TestEvaluateAnyOf(t *testing.T) {
	reg := testRegistry(t)
	admin := mustRole(t, reg, "admin")
	editor := mustRole(t, reg, "editor")
	viewer := mustRole(t, reg, "viewer")

	allow := AnyOf(admin, editor)

	// Authentication takes precedence over role comparison.
	require.Equal(t, DecisionAuthnRequired, Evaluate(Anonymous(), allow).Kind)

	// Authenticated but disjoint roles: denied, not sent to login.
	denied := Evaluate(Subject{Authenticated: true, Roles: NewRoleSet(viewer)}, allow)
	require.Equal(t, DecisionUnauthorized, denied.Kind)
	require.NotEmpty(t, denied.Reason)
	require.False(t, denied.NeedsLogin())

	// Authenticated with empty role set is still a role mismatch.
	require.Equal(t, DecisionUnauthorized, Evaluate(Subject{Authenticated: true}, allow).Kind)

	require.True(t, Evaluate(Subject{Authenticated: true, Roles: NewRoleSet(editor)}, allow).Authorized())
}

func TestRuleMapDefaultsToForbidden(t *testing.T) {
	reg := testRegistry(t)
	admin := mustRole(t, reg, "admin")

	rules := RuleMap{
		"/admin/users": {"GET": AnyOf(admin)},
	}

	// Unknown route and unknown method both fall back to Forbidden.
	subject := Subject{Authenticated: true, Roles: NewRoleSet(admin)}
	require.Equal(t, DecisionUnauthorized, Evaluate(subject, rules.Requirement("/admin/nope", "GET")).Kind)
	require.Equal(t, DecisionUnauthorized, Evaluate(subject, rules.Requirement("/admin/users", "DELETE")).Kind)
	require.True(t, Evaluate(subject, rules.Requirement("/admin/users", "GET")).Authorized())
}
