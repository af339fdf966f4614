package audit

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-cms/meridian-cms/internal/platform/httpx"
	"github.com/meridian-cms/meridian-cms/internal/shared"
)

// Handler menyajikan timeline audit untuk UI admin.
type Handler struct {
	logger *slog.Logger
	repo   ListPort
}

// NewHandler constructs an HTTP handler for the audit timeline.
func NewHandler(logger *slog.Logger, repo ListPort) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

type entryView struct {
	ID         string    `json:"id"`
	ActorID    int64     `json:"actor_id"`
	Language   string    `json:"language"`
	Message    string    `json:"message"`
	TargetPath string    `json:"target_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{Language: q.Get("language")}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "actor_id must be numeric")
			return
		}
		filters.ActorID = id
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if filters.PageSize > 50 {
		filters.PageSize = 50
	}

	total, err := h.repo.Count(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit count", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	entries, err := h.repo.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit list", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	out := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryView{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			Language:   entry.Language,
			Message:    entry.Message,
			TargetPath: entry.TargetPath,
			CreatedAt:  entry.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":    out,
		"pagination": shared.NewPagination(filters.Page, filters.PageSize, total),
	})
}
