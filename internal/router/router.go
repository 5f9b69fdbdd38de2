// Package router sets up all HTTP routes and middleware chains for the
// blogapi server. Reads are public; mutations require a bearer token,
// and category management is admin-only.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
)

// loginRateLimit allows 10 login attempts per IP per minute.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned stop function releases the
// login rate limiter's background goroutine.
func New(guard *middleware.Guard, auth *handlers.Auth, posts *handlers.Posts, categories *handlers.Categories, media *handlers.Media) (chi.Router, func()) {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.With(loginLimiter.Middleware).Post("/login", auth.Login)
			r.With(guard.RequireAuth).Get("/me", auth.Me)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.With(guard.RequireAuth).Post("/", posts.Create)

			r.Route("/{idOrSlug}", func(r chi.Router) {
				r.Get("/", posts.Get)
				r.With(guard.RequireAuth).Put("/", posts.Update)
				r.With(guard.RequireAuth).Delete("/", posts.Delete)

				// Comments accept anonymous callers; a valid token attaches
				// the commenter's identity.
				r.With(guard.OptionalAuth).Post("/comments", posts.AddComment)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{idOrSlug}", categories.Get)

			// Category management is admin-only.
			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAuth)
				r.Use(middleware.RequireAdmin)
				r.Post("/", categories.Create)
				r.Put("/{idOrSlug}", categories.Update)
				r.Delete("/{idOrSlug}", categories.Archive)
			})
		})

		r.With(guard.RequireAuth).Post("/media", media.Upload)
	})

	return r, loginLimiter.Stop
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
