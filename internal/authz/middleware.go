package authz

import (
	"net/http"

	"log/slog"

	"github.com/meridian-cms/meridian-cms/internal/platform/httpx"
)

// Guard wires gateway authorization into HTTP handlers.
type Guard struct {
	Gateway   *Gateway
	Logger    *slog.Logger
	LoginPath string
}

// Require gates a route group behind the rule table entry for route.
// The decision distinguishes missing authentication (401 plus a login
// location) from insufficient roles (403).
func (g Guard) Require(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := g.Gateway.Decide(r.Context(), route, r.Method)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("authz decide", slog.String("route", string(route)), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			switch decision.Kind {
			case DecisionAuthorized:
				next.ServeHTTP(w, r)
			case DecisionAuthnRequired:
				login := g.LoginPath
				if login == "" {
					login = "/auth/login"
				}
				w.Header().Set("Location", login)
				httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "log in to continue")
			default:
				httpx.Problem(w, http.StatusForbidden, "Forbidden", decision.Reason)
			}
		})
	}
}
