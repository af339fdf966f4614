package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/meridian-cms/meridian-cms/internal/audit"
	"github.com/meridian-cms/meridian-cms/internal/auth"
	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/i18n"
	"github.com/meridian-cms/meridian-cms/internal/observability"
	"github.com/meridian-cms/meridian-cms/internal/platform/httpx"
	"github.com/meridian-cms/meridian-cms/internal/roles"
	"github.com/meridian-cms/meridian-cms/internal/shared"
	"github.com/meridian-cms/meridian-cms/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	RolesHandler   *roles.Handler
	AuditHandler   *audit.Handler
	Gateway        *authz.Gateway
	Guard          authz.Guard
	Catalog        *i18n.Catalog
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// State-changing requests need the session CSRF token; clients fetch
	// it here before their first POST.
	r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		params.UsersHandler.MountActivationRoutes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(params.Guard.Require(RouteDashboard)).
			Get("/", dashboardHandler(params))
		r.Route("/users", func(r chi.Router) {
			r.Use(params.Guard.Require(RouteUsers))
			params.UsersHandler.MountRoutes(r)
		})
		r.Route("/roles", func(r chi.Router) {
			r.Use(params.Guard.Require(RouteRoles))
			params.RolesHandler.MountRoutes(r)
		})
		r.Route("/audit", func(r chi.Router) {
			r.Use(params.Guard.Require(RouteAudit))
			params.AuditHandler.MountRoutes(r)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

type menuItemView struct {
	Label  string `json:"label"`
	Route  string `json:"route"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// dashboardHandler serves the admin landing payload: the menu filtered
// down to what the current user may open, with the entry matching the
// requested path marked active.
func dashboardHandler(params RouterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := Menu()
		visible, err := params.Gateway.VisibleMenu(r.Context(), entries)
		if err != nil {
			params.Logger.Error("filter menu", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}

		current := authz.Route(r.URL.Query().Get("path"))
		if current == "" {
			current = RouteDashboard
		}
		candidates := make([]authz.Route, 0, len(visible))
		for _, entry := range visible {
			candidates = append(candidates, entry.Route)
		}
		active, _ := authz.BestMatch(current, candidates)

		prefs := acceptedLanguages(r)
		items := make([]menuItemView, 0, len(visible))
		for _, entry := range visible {
			items = append(items, menuItemView{
				Label:  params.Catalog.Render(prefs, entry.Label),
				Route:  string(entry.Route),
				Icon:   entry.Icon,
				Active: entry.Route == active,
			})
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"menu": items})
	}
}

func acceptedLanguages(r *http.Request) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil {
		return nil
	}
	return tags
}
