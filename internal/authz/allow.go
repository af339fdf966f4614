package authz

import "strings"

type allowKind int

const (
	allowForbidden allowKind = iota
	allowUnrestricted
	allowAuthenticated
	allowAnyOf
)

// Allow classifies who may perform a route+method pair. The zero value
// is Forbidden, so an unclassified rule can never fall through to a
// permissive default.
type Allow struct {
	kind  allowKind
	roles RoleSet
}

// Forbidden denies everyone, including administrators.
func Forbidden() Allow { return Allow{kind: allowForbidden} }

// Unrestricted permits any request, even unauthenticated ones.
func Unrestricted() Allow { return Allow{kind: allowUnrestricted} }

// Authenticated permits any logged-in user regardless of roles.
func Authenticated() Allow { return Allow{kind: allowAuthenticated} }

// AnyOf permits users holding at least one of the given roles.
func AnyOf(roles ...Role) Allow {
	return Allow{kind: allowAnyOf, roles: NewRoleSet(roles...)}
}

// String renders the requirement for logging.
func (a Allow) String() string {
	switch a.kind {
	case allowUnrestricted:
		return "unrestricted"
	case allowAuthenticated:
		return "authenticated"
	case allowAnyOf:
		return "any-of(" + strings.Join(a.roles.Names(), ",") + ")"
	default:
		return "forbidden"
	}
}

// DecisionKind enumerates evaluation outcomes.
type DecisionKind int

const (
	// DecisionAuthorized permits the request.
	DecisionAuthorized DecisionKind = iota
	// DecisionUnauthorized denies the request for an authenticated user.
	DecisionUnauthorized
	// DecisionAuthnRequired denies the request pending login.
	DecisionAuthnRequired
)

// Decision is the terminal outcome of one evaluation. Decisions are
// values, never errors, and are never cached across requests.
type Decision struct {
	Kind   DecisionKind
	Reason string
}

// Authorized reports whether the request may proceed.
func (d Decision) Authorized() bool { return d.Kind == DecisionAuthorized }

// NeedsLogin reports whether the caller should be sent to login.
func (d Decision) NeedsLogin() bool { return d.Kind == DecisionAuthnRequired }

// Subject describes the caller's authentication state and held roles.
// An unauthenticated caller has Authenticated false and an empty set.
type Subject struct {
	Authenticated bool
	Roles         RoleSet
}

// Anonymous is the subject for requests without a session.
func Anonymous() Subject { return Subject{} }

// Evaluate decides whether subject satisfies the requirement. Pure and
// total: every kind/subject combination yields exactly one decision.
// Authentication is checked before role membership, so an anonymous
// caller on a role-restricted route gets DecisionAuthnRequired rather
// than DecisionUnauthorized.
func Evaluate(subject Subject, allow Allow) Decision {
	switch allow.kind {
	case allowUnrestricted:
		return Decision{Kind: DecisionAuthorized}
	case allowAuthenticated:
		if subject.Authenticated {
			return Decision{Kind: DecisionAuthorized}
		}
		return Decision{Kind: DecisionAuthnRequired}
	case allowAnyOf:
		if !subject.Authenticated {
			return Decision{Kind: DecisionAuthnRequired}
		}
		if subject.Roles.Intersects(allow.roles) {
			return Decision{Kind: DecisionAuthorized}
		}
		return Decision{
			Kind:   DecisionUnauthorized,
			Reason: "requires one of: " + strings.Join(allow.roles.Names(), ", "),
		}
	default:
		return Decision{Kind: DecisionUnauthorized, Reason: "route is not open to anyone"}
	}
}
