package posts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/platform/httpx"
	"github.com/inkwell-blog/inkwell/internal/rbac"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Handler wires HTTP endpoints for posts. Reads are public but show only
// published posts unless the caller holds posts:update; writes require the
// matching posts:* permission.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	evaluator *rbac.Evaluator
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, evaluator *rbac.Evaluator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		evaluator: evaluator,
		validator: validator.New(),
	}
}

// MountPublicRoutes registers the read endpoints. They run behind
// OptionalAuth so a bearer token widens visibility to drafts.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Get("/slug/{slug}", h.handleGetBySlug)
}

// MountProtectedRoutes registers the write endpoints.
func (h *Handler) MountProtectedRoutes(r chi.Router, guard rbac.Middleware) {
	r.With(guard.RequirePermission(rbac.PermPostsCreate)).Post("/", h.handleCreate)
	r.With(guard.RequirePermission(rbac.PermPostsUpdate)).Put("/{id}", h.handleUpdate)
	r.With(guard.RequirePermission(rbac.PermPostsDelete)).Delete("/{id}", h.handleDelete)
	r.With(guard.RequirePermission(rbac.PermPostsPublish)).Post("/{id}/publish", h.handlePublish)
}

// privileged reports whether the request's principal may see unpublished
// posts. Evaluation errors deny rather than widen visibility.
func (h *Handler) privileged(r *http.Request) bool {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		return false
	}
	decision, err := h.evaluator.Authorize(r.Context(), principal, rbac.PermPostsUpdate)
	if err != nil {
		return false
	}
	return decision.Allowed
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	q := ListPostsQuery{
		Page:     page,
		PerPage:  perPage,
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
		Search:   r.URL.Query().Get("search"),
	}
	list, meta, err := h.service.List(r.Context(), q, h.privileged(r))
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Post{}
	}
	httpx.Paginated(w, list, meta)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	post, err := h.service.Get(r.Context(), id, h.privileged(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, post)
}

func (h *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"), h.privileged(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, post)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrTokenMalformed)
		return
	}
	var req CreatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.service.Create(r.Context(), principal.UserID, req)
	if err != nil {
		if err != shared.ErrDuplicate && err != shared.ErrScheduleMissing {
			h.logger.Error("create post", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, post)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req UpdatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, post)
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
	httpx.Success(w, map[string]string{"message": "post deleted"})
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	post, err := h.service.Publish(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, post)
}
