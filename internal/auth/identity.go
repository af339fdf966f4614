package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/shared"
	"github.com/meridian-cms/meridian-cms/internal/users"
)

// SessionIdentity resolves the authenticated user from the request
// session. It is the identity provider the authorization gateway and
// the admin handlers share.
type SessionIdentity struct {
	Users users.RepositoryPort
}

// CurrentUserID returns the session's user ID, if a session carries one.
func (s SessionIdentity) CurrentUserID(ctx context.Context) (int64, bool) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// CurrentUser loads the full user record for the session.
func (s SessionIdentity) CurrentUser(ctx context.Context) (users.User, bool) {
	id, ok := s.CurrentUserID(ctx)
	if !ok {
		return users.User{}, false
	}
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return users.User{}, false
	}
	return user, true
}

var _ authz.Identity = SessionIdentity{}
