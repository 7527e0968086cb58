package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/users-api/internal/api"
	"github.com/phrazzld/users-api/internal/api/middleware"
	"github.com/phrazzld/users-api/internal/service"
)

// newRouter wires the middleware stack and routes.
func newRouter(userService service.UserService, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.TraceMiddleware(logger))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer(api.HandleAPIError))

	healthHandler := api.NewHealthHandler()
	userHandler := api.NewUserHandler(userService)

	r.Get("/health", healthHandler.Health)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Put("/", userHandler.UpdateUser)
			r.Delete("/", userHandler.DeleteUser)
		})
	})

	// Unsupported methods are reported like unknown paths.
	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.NotFoundHandler)

	return r
}
