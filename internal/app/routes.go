package app

import (
	"fmt"
	"net/http"

	"github.com/meridian-cms/meridian-cms/internal/authz"
)

// Routes of the admin subsite. Rule lookups and menu highlighting both
// key off these values, so handlers are mounted under the same paths.
const (
	RouteDashboard authz.Route = "/admin"
	RouteUsers     authz.Route = "/admin/users"
	RouteRoles     authz.Route = "/admin/roles"
	RouteAudit     authz.Route = "/admin/audit"
)

// Menu returns the static admin menu in display order. Labels are
// message keys resolved against the i18n catalog per request.
func Menu() []authz.MenuEntry {
	return []authz.MenuEntry{
		{Label: "menu.dashboard", Route: RouteDashboard, Icon: "home"},
		{Label: "menu.users", Route: RouteUsers, Icon: "users"},
		{Label: "menu.roles", Route: RouteRoles, Icon: "shield"},
		{Label: "menu.audit", Route: RouteAudit, Icon: "scroll"},
	}
}

// Rules builds the route permission table against the declared role
// registry. Any route or method not listed here is forbidden.
func Rules(registry *authz.Registry) (authz.RuleMap, error) {
	admin, ok := registry.Lookup("admin")
	if !ok {
		return nil, fmt.Errorf("role %q not declared", "admin")
	}
	editor, ok := registry.Lookup("editor")
	if !ok {
		return nil, fmt.Errorf("role %q not declared", "editor")
	}

	return authz.RuleMap{
		RouteDashboard: {
			http.MethodGet: authz.Authenticated(),
		},
		RouteUsers: {
			http.MethodGet:    authz.AnyOf(admin),
			http.MethodPost:   authz.AnyOf(admin),
			http.MethodPatch:  authz.AnyOf(admin),
			http.MethodPut:    authz.AnyOf(admin),
			http.MethodDelete: authz.AnyOf(admin),
		},
		RouteRoles: {
			http.MethodGet: authz.AnyOf(admin),
		},
		RouteAudit: {
			http.MethodGet: authz.AnyOf(admin, editor),
		},
	}, nil
}
