package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers every endpoint. Reads are public; writes need an authenticated
// request, and authoring further needs a GitHub identity (checked by the blog handler).
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.getHealth())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		// GitHub login
		r.Get("/oauth2/authorization/github", handlers.oauthHandler.startLogin())
		r.Get("/login/oauth2/code/github", handlers.oauthHandler.completeLogin())

		r.Route("/api", func(r chi.Router) {
			r.Get("/blogs", handlers.blogHandler.getAllBlogs())
			r.Get("/blogs/{blogID}", handlers.blogHandler.getBlog())
			r.Get("/tags", handlers.tagHandler.getAllTags())
			r.Get("/users/me", handlers.userHandler.getCurrentUser())
			r.Post("/users/logout", handlers.userHandler.logout())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.requireAuthentication)

				r.Post("/blogs", handlers.blogHandler.createBlog())
				r.Put("/blogs/{blogID}", handlers.blogHandler.updateBlog())
				r.Delete("/blogs/{blogID}", handlers.blogHandler.deleteBlog())
			})
		})
	})
}
