package tags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/platform/httpx"
	"github.com/inkwell-blog/inkwell/internal/rbac"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Handler wires HTTP endpoints for tags. Reads are public, writes require
// the matching tags:* permission.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountPublicRoutes registers the unauthenticated read endpoints.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{idOrSlug}", h.handleGet)
}

// MountProtectedRoutes registers the write endpoints.
func (h *Handler) MountProtectedRoutes(r chi.Router, guard rbac.Middleware) {
	r.With(guard.RequirePermission(rbac.PermTagsCreate)).Post("/", h.handleCreate)
	r.With(guard.RequirePermission(rbac.PermTagsUpdate)).Put("/{id}", h.handleUpdate)
	r.With(guard.RequirePermission(rbac.PermTagsDelete)).Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list tags", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Tag{}
	}
	httpx.Success(w, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "idOrSlug")
	var (
		tag *Tag
		err error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		tag, err = h.service.Get(r.Context(), id)
	} else {
		tag, err = h.service.GetBySlug(r.Context(), param)
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, tag)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	tag, err := h.service.Create(r.Context(), req)
	if err != nil {
		if err != shared.ErrDuplicate {
			h.logger.Error("create tag", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, tag)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req UpdateTagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	tag, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, tag)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, map[string]string{"message": "tag deleted"})
}
