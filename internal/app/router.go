package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/categories"
	"github.com/inkwell-blog/inkwell/internal/observability"
	"github.com/inkwell-blog/inkwell/internal/posts"
	"github.com/inkwell-blog/inkwell/internal/rbac"
	"github.com/inkwell-blog/inkwell/internal/roles"
	"github.com/inkwell-blog/inkwell/internal/tags"
	"github.com/inkwell-blog/inkwell/internal/users"
	"github.com/inkwell-blog/inkwell/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthService       *auth.Service
	AuthHandler       *auth.Handler
	PostsHandler      *posts.Handler
	CategoriesHandler *categories.Handler
	TagsHandler       *tags.Handler
	UsersHandler      *users.Handler
	RolesHandler      *roles.Handler
	JobHandler        *jobs.Handler
	RBACMiddleware    rbac.Middleware
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router serving /api/v1.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	guard := params.RBACMiddleware

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			params.AuthHandler.MountRoutes(ar, LoginRateLimiter(params.Config))
		})

		api.Route("/posts", func(pr chi.Router) {
			pr.Group(func(pub chi.Router) {
				pub.Use(params.AuthService.OptionalAuth)
				params.PostsHandler.MountPublicRoutes(pub)
			})
			pr.Group(func(priv chi.Router) {
				priv.Use(params.AuthService.RequireAuth)
				params.PostsHandler.MountProtectedRoutes(priv, guard)
			})
		})

		api.Route("/categories", func(cr chi.Router) {
			cr.Group(func(pub chi.Router) {
				params.CategoriesHandler.MountPublicRoutes(pub)
			})
			cr.Group(func(priv chi.Router) {
				priv.Use(params.AuthService.RequireAuth)
				params.CategoriesHandler.MountProtectedRoutes(priv, guard)
			})
		})

		api.Route("/tags", func(tr chi.Router) {
			tr.Group(func(pub chi.Router) {
				params.TagsHandler.MountPublicRoutes(pub)
			})
			tr.Group(func(priv chi.Router) {
				priv.Use(params.AuthService.RequireAuth)
				params.TagsHandler.MountProtectedRoutes(priv, guard)
			})
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Use(params.AuthService.RequireAuth)
			params.UsersHandler.MountRoutes(ur, guard)
		})

		api.Route("/roles", func(rr chi.Router) {
			rr.Use(params.AuthService.RequireAuth)
			params.RolesHandler.MountRoutes(rr, guard)
		})

		api.Route("/permissions", func(pr chi.Router) {
			pr.Use(params.AuthService.RequireAuth)
			params.RolesHandler.MountPermissionRoutes(pr, guard)
		})

		if params.JobHandler != nil {
			api.Route("/jobs", func(jr chi.Router) {
				jr.Use(params.AuthService.RequireAuth)
				params.JobHandler.MountRoutes(jr)
			})
		}
	})

	return r
}
