package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"expensetracker/internal/analytics"
	"expensetracker/internal/auth"
	"expensetracker/internal/expense"
	"expensetracker/internal/transport/middleware"
	"expensetracker/internal/transport/swagger"

	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the full HTTP surface under /api/v1.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	expenseHandler *expense.Handler,
	analyticsHandler *analytics.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	adminOnly := auth.NewRoleAuthorization(logger)

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	// OpenAPI document and Swagger UI outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
		})

		// Authenticated routes.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)

			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", expenseHandler.CreateExpense)
				er.Get("/", expenseHandler.ListExpenses)
				er.Get("/{id}", expenseHandler.GetExpense)

				er.Group(func(ar chi.Router) {
					ar.Use(adminOnly.RequireAdmin())
					ar.Patch("/{id}/status", expenseHandler.UpdateStatus)
				})
			})

			pr.Get("/analytics", analyticsHandler.GetAnalytics)
		})
	})
}
