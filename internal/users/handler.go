package users

import (
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/platform/httpx"
)

// Handler manages user management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	identity authz.Identity
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, identity authz.Identity) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		identity: identity,
		validate: validator.New(),
	}
}

// MountRoutes registers the admin user-management routes. Authorization
// is applied by the router via the gateway guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/roles", h.getRoles)
	r.Put("/{id}/roles", h.setRoles)
	r.Post("/{id}/password", h.changePassword)
	r.Post("/{id}/reset", h.reset)
	r.Post("/{id}/resend-activation", h.resendActivation)
}

// MountActivationRoutes registers the public activation endpoint.
func (h *Handler) MountActivationRoutes(r chi.Router) {
	r.Post("/activate", h.activate)
}

type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Pending   bool      `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(user User) userView {
	return userView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Pending:   user.Pending(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, user := range users {
		out = append(out, toView(user))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": out})
}

type createUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=120"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Create(r.Context(), actorID, req.Email, req.Name)
	if err != nil {
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toView(user))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toView(user))
}

type updateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=120"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Update(r.Context(), actorID, id, req.Email, req.Name)
	if err != nil {
		h.logger.Error("update user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toView(user))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.logger.Error("delete user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) getRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	set, err := h.service.Roles(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": set.Names()})
}

type setRolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}

func (h *Handler) setRoles(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req setRolesRequest
	if !h.decode(w, r, &req) {
		return
	}
	set, err := h.service.SetUserRoles(r.Context(), actorID, id, req.Roles)
	if err != nil {
		h.logger.Error("set roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": set.Names()})
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), actorID, id, req.Password); err != nil {
		h.logger.Error("change password", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Reset(r.Context(), actorID, id); err != nil {
		h.logger.Error("reset user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) resendActivation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.ResendActivation(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type activateRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if !h.decode(w, r, &req) {
		return
	}
	check, err := h.service.Activate(r.Context(), req.UserID, req.Token, req.Password)
	if err != nil {
		h.logger.Error("activate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	switch check {
	case TokenValid:
		httpx.JSON(w, http.StatusOK, map[string]any{"status": "activated"})
	case TokenMismatch:
		httpx.Problem(w, http.StatusBadRequest, "Token Mismatch", "the supplied activation token is not valid")
	default:
		httpx.Problem(w, http.StatusConflict, "Already Active", "the account has no pending activation")
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actorID, ok := h.identity.CurrentUserID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "log in to continue")
		return 0, false
	}
	return actorID, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be numeric")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}
