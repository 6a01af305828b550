// Package router sets up all HTTP routes and middleware chains for the
// Scaffolder API. Routes split into a public marketplace surface and an
// authenticated authoring surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scaffolder/internal/handlers"
	"scaffolder/internal/middleware"
	"scaffolder/internal/session"
)

// Deps bundles the collaborators the router wires together.
type Deps struct {
	Sessions     *session.Store
	CSRF         func(http.Handler) http.Handler
	LoginLimiter *middleware.RateLimiter

	Auth        *handlers.Auth
	Templates   *handlers.Templates
	Builder     *handlers.Builder
	Screenshots *handlers.Screenshots
	Marketplace *handlers.Marketplace
	Admin       *handlers.Admin
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware -- applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check -- no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public marketplace.
		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/", d.Marketplace.Catalog)
			r.Get("/categories", d.Marketplace.Categories)
			r.Get("/{slug}", d.Marketplace.Detail)
		})

		// Everything below mutates state on POST, so it runs behind CSRF.
		r.Group(func(r chi.Router) {
			r.Use(d.CSRF)

			r.Route("/auth", func(r chi.Router) {
				r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)
				r.Post("/logout", d.Auth.Logout)

				// 2FA -- requires auth but NOT completed 2FA.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Post("/2fa/setup", d.Auth.TwoFASetup)
					r.Post("/2fa/verify", d.Auth.TwoFAVerify)
				})

				r.With(middleware.RequireAuth, middleware.Require2FA).Get("/me", d.Auth.Me)
			})

			// Authoring surface: authenticated, 2FA-verified authors.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Use(middleware.RequireAuthor)

				r.Route("/templates", func(r chi.Router) {
					r.Get("/", d.Templates.List)
					r.Get("/{id}", d.Templates.Get)
					r.Delete("/{id}", d.Templates.Delete)

					r.Route("/{id}/screenshots", func(r chi.Router) {
						r.Get("/", d.Screenshots.List)
						r.Post("/", d.Screenshots.Upload)
						r.Delete("/{screenshotID}", d.Screenshots.Delete)
					})
				})

				r.Route("/builder", func(r chi.Router) {
					r.Post("/", d.Builder.Start)
					r.Get("/", d.Builder.State)
					r.Get("/tree", d.Builder.Tree)
					r.Get("/validate", d.Builder.Validate)
					r.Post("/actions", d.Builder.Apply)
					r.Post("/next", d.Builder.Next)
					r.Post("/previous", d.Builder.Previous)
					r.Post("/jump", d.Builder.Jump)
					r.Post("/save", d.Builder.Save)
					r.Post("/publish", d.Builder.Publish)
				})
			})

			// Organization administration -- admin only.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Use(middleware.RequireAdmin)

				r.Get("/users", d.Admin.Users)
				r.Post("/users/{id}/reset-2fa", d.Admin.ResetTwoFA)
				r.Get("/publish-log", d.Marketplace.PublishLog)
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
