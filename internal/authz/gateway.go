package authz

import "context"

// Identity resolves the currently authenticated user, if any.
type Identity interface {
	CurrentUserID(ctx context.Context) (int64, bool)
}

// RoleSource loads a user's granted role set from the store. The
// gateway re-reads on every request; roles may change between requests.
type RoleSource interface {
	GetRoles(ctx context.Context, userID int64) (RoleSet, error)
}

// Gateway combines the rule table, role store and identity provider
// into per-request authorization checks.
type Gateway struct {
	rules    RuleTable
	roles    RoleSource
	identity Identity
}

// NewGateway constructs a Gateway.
func NewGateway(rules RuleTable, roles RoleSource, identity Identity) *Gateway {
	return &Gateway{rules: rules, roles: roles, identity: identity}
}

// Subject builds the evaluation subject for the current request.
func (g *Gateway) Subject(ctx context.Context) (Subject, error) {
	userID, ok := g.identity.CurrentUserID(ctx)
	if !ok {
		return Anonymous(), nil
	}
	held, err := g.roles.GetRoles(ctx, userID)
	if err != nil {
		return Subject{}, err
	}
	return Subject{Authenticated: true, Roles: held}, nil
}

// Decide evaluates the current user against the requirement for
// route+method and returns the full decision.
func (g *Gateway) Decide(ctx context.Context, route Route, method string) (Decision, error) {
	subject, err := g.Subject(ctx)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(subject, g.rules.Requirement(route, method)), nil
}

// Authorize returns the route itself when the current user may access
// it, and false otherwise. Serves both as a request gate and as the
// menu visibility check.
func (g *Gateway) Authorize(ctx context.Context, route Route, method string) (Route, bool, error) {
	decision, err := g.Decide(ctx, route, method)
	if err != nil {
		return "", false, err
	}
	if !decision.Authorized() {
		return "", false, nil
	}
	return route, true, nil
}

// VisibleMenu filters entries down to those the current user may GET,
// preserving the original order. The role set is loaded once for the
// whole menu; every entry is still evaluated independently.
func (g *Gateway) VisibleMenu(ctx context.Context, entries []MenuEntry) ([]MenuEntry, error) {
	subject, err := g.Subject(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]MenuEntry, 0, len(entries))
	for _, entry := range entries {
		if Evaluate(subject, g.rules.Requirement(entry.Route, "GET")).Authorized() {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}
