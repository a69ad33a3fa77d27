// Package router sets up all HTTP routes and middleware chains for the
// OnlyStudies portal. Public pages, auth flows, the forum, and the JSON
// APIs each get the middleware stack they need.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onlystudies/internal/handlers"
	"onlystudies/internal/middleware"
	"onlystudies/internal/session"
	"onlystudies/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, authLimiter *middleware.RateLimiter, auth *handlers.Auth, site *handlers.Site, blog *handlers.Blog, forum *handlers.Forum, api *handlers.API, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Static assets, embedded at build time.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// JSON APIs. Session-aware but no CSRF: both endpoints are read-only.
	r.Route("/api", func(r chi.Router) {
		r.Get("/blog-feed/", api.BlogFeed)
		r.Get("/blog-feed", api.BlogFeed)
		r.Get("/notifications/", api.Notifications)
		r.Get("/notifications", api.Notifications)
	})

	// HTML pages — all form posts go through CSRF protection.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth flows. Credential posts are rate-limited per IP to slow
		// down password guessing and signup floods.
		r.Get("/signup", auth.SignupPage)
		r.Get("/login", auth.LoginPage)
		r.Post("/logout", auth.Logout)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", auth.SignupSubmit)
			r.Post("/login", auth.LoginSubmit)
		})

		// Public site.
		r.Get("/", site.Home)
		r.Get("/search", site.Search)
		r.Get("/apply/{examName}", site.ApplyExam)
		r.Get("/category/{categorySlug}", site.Category)
		r.Get("/category/{categorySlug}/{subcategorySlug}", site.SubCategory)

		// Blog.
		r.Get("/blog", blog.Feed)
		r.Get("/blog/{slug}", blog.Detail)

		// Forum. Asking requires a login; browsing does not. The
		// /forum/ask route must be registered before /forum/{slug} so
		// chi resolves the literal segment first.
		r.Get("/forum", forum.List)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/forum/ask", forum.AskPage)
			r.Post("/forum/ask", forum.AskSubmit)
		})
		r.Get("/forum/{slug}", forum.Detail)
		r.Post("/forum/{slug}/answer", forum.PostAnswer)
	})

	// Styled 404 for everything else.
	r.NotFound(site.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
