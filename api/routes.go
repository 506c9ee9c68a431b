package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes sets up all routes with authentication
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(RequestLoggingMiddleware)

		// Project endpoints
		r.Get("/project", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Report endpoint
		r.Get("/project/{projectID}/report", handlers.reportHandler.generateReport())
	})
}
