package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/intlakaa/internal/logging"
	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterOptions carries the cross-cutting pieces NewRouter mounts.
type RouterOptions struct {
	AllowedOrigins []string
	LoginLimiter   *middleware.RateLimiter
	LeadsLimiter   *middleware.RateLimiter
	Logger         *logging.Logger
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(h *Handler, auth *middleware.AuthMiddleware, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	authed := func(fn http.HandlerFunc, roles ...model.UserRole) http.Handler {
		if len(roles) == 0 {
			roles = []model.UserRole{model.UserRoleOwner, model.UserRoleAdmin}
		}
		return auth.Authenticate(auth.RequireRole(roles...)(fn))
	}
	limited := func(rl *middleware.RateLimiter, fn http.HandlerFunc) http.Handler {
		if rl == nil {
			return fn
		}
		return rl.Limit(fn)
	}

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Public routes
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/auth/login", limited(opts.LoginLimiter, h.Login))
	mux.Handle("POST /api/auth/accept-invite", limited(opts.LoginLimiter, h.AcceptInvite))
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.Handle("POST /api/requests", limited(opts.LeadsLimiter, h.CreateRequest))
	mux.HandleFunc("GET /api/seo", h.GetSeo)

	// Session routes
	mux.Handle("GET /api/auth/me", authed(h.Me))
	mux.Handle("PUT /api/auth/change-password", authed(h.ChangePassword))

	// Request routes
	mux.Handle("GET /api/requests", authed(h.ListRequests))
	mux.Handle("GET /api/requests/export", authed(h.ExportRequests))
	mux.Handle("GET /api/requests/export.xlsx", authed(h.ExportRequestsXLSX))
	mux.Handle("GET /api/requests/stats", authed(h.RequestStats))
	mux.Handle("DELETE /api/requests/{id}", authed(h.DeleteRequest))

	// User routes
	mux.Handle("GET /api/users", authed(h.ListUsers))
	mux.Handle("POST /api/users/invite", authed(h.InviteUser, model.UserRoleOwner))
	mux.Handle("PUT /api/users/{id}/role", authed(h.UpdateUserRole, model.UserRoleOwner))
	mux.Handle("DELETE /api/users/{id}", authed(h.DeleteUser, model.UserRoleOwner))

	// SEO routes
	mux.Handle("PUT /api/seo", authed(h.UpdateSeo))
	mux.Handle("POST /api/seo/sync", authed(h.SyncSeo))

	mux.HandleFunc("/api/", h.NotFound)

	// Public site
	mux.HandleFunc("GET /robots.txt", h.Robots)
	mux.HandleFunc("GET /sitemap.xml", h.Sitemap)
	mux.HandleFunc("/", h.Site)

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsHandler(middleware.Logger(logger)(mux))
}
