package roles

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-cms/meridian-cms/internal/platform/httpx"
)

// Handler exposes the declared role catalogue.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
}

type roleView struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	defaults := h.service.DefaultRoles()
	declared := h.service.Declared()
	out := make([]roleView, 0, len(declared))
	for _, role := range declared {
		out = append(out, roleView{Name: role.String(), Default: defaults.Has(role)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}
