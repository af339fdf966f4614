package shared

import "context"

// adminSessionKey keeps the admin session out of reach of other
// context values set along the middleware chain.
type adminSessionKey struct{}

// ContextWithSession attaches the authenticated admin session to the
// request context. The session middleware calls this once per request;
// handlers downstream read it back with SessionFromContext.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, adminSessionKey{}, sess)
}

// SessionFromContext returns the admin session attached by the session
// middleware, or nil for anonymous requests.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(adminSessionKey{}).(*Session)
	return sess
}
