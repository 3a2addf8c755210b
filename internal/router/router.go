// Package router sets up all HTTP routes and middleware chains for the
// comparison service API. Routes are organized into public reads, auth,
// and an admin mutation group behind RequireAdmin.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shiptech/internal/handlers"
	"shiptech/internal/middleware"
	"shiptech/internal/session"
	"shiptech/internal/store"
)

const (
	// loginRateLimit is how many login attempts one IP gets per window.
	loginRateLimit = 10

	// loginRateWindow is the sliding window for login attempts.
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Store, admins *store.AdminStore, auth *handlers.Auth, public *handlers.Public, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadAdmin(sessions, admins))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/comparison", public.Comparison)
		r.Get("/management", public.Management)
		r.Get("/companies", public.Companies)
		r.Get("/categories", public.Categories)
		r.Get("/changelogs", public.ChangeLogs)

		// Auth.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/session", auth.Session)
		})

		// Diagnostics.
		r.Route("/diag", func(r chi.Router) {
			r.Get("/snapshot", public.Snapshot)
			r.Post("/create-admin", public.CreateAdminDisabled)
		})

		// Admin mutations. Every route requires a revalidated session.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Route("/companies", func(r chi.Router) {
				r.Post("/", admin.CompanyCreate)
				r.Post("/reorder", admin.CompanyReorder)
				r.Put("/{id}", admin.CompanyUpdate)
				r.Delete("/{id}", admin.CompanyDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CategoryCreate)
				r.Post("/reorder", admin.CategoryReorder)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/technologies", func(r chi.Router) {
				r.Post("/", admin.TechnologyCreate)
				r.Put("/{id}", admin.TechnologyUpdate)
				r.Delete("/{id}", admin.TechnologyDelete)
				r.Post("/{id}/image", admin.ImageUpload)
				r.Delete("/{id}/image", admin.ImageDelete)
				r.Post("/{id}/categories/{categoryID}", admin.AttachCategory)
				r.Delete("/{id}/categories/{categoryID}", admin.DetachCategory)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
