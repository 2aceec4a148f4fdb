package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/statusdesk/statusdesk/internal/auth"
	"github.com/statusdesk/statusdesk/internal/configuration"
	"github.com/statusdesk/statusdesk/internal/shift"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	"github.com/statusdesk/statusdesk/internal/transport/middleware"
	"github.com/statusdesk/statusdesk/internal/transport/swagger"
	"github.com/statusdesk/statusdesk/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, broker Pinger, authHandler *auth.Handler, authService *auth.Service, userHandler *user.Handler, statusHandler *status.Handler, shiftHandler *shift.Handler, configHandler *configuration.Handler, requestHandler *statusrequest.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, broker)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Login is the only public auth route
		if authHandler != nil {
			r.Post("/auth/login", authHandler.Login)
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(authService))

			if authHandler != nil {
				pr.Route("/auth", func(ar chi.Router) {
					ar.Post("/logout", authHandler.Logout)
					ar.Post("/change-password", authHandler.ChangePassword)
					ar.Post("/reset-password/{userId}", authHandler.ResetPassword)
				})
			}

			if userHandler != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Post("/", userHandler.CreateUser)
					ur.Get("/", userHandler.ListUsers)
					ur.Get("/{userId}", userHandler.GetUser)
					ur.Patch("/{userId}", userHandler.UpdateUser)
					ur.Delete("/{userId}", userHandler.DeleteUser)
					ur.Patch("/{userId}/whitelist", userHandler.ToggleWhitelist)
					ur.Patch("/{userId}/status", userHandler.OverrideStatus)
				})
			}

			if statusHandler != nil {
				pr.Route("/statuses", func(sr chi.Router) {
					sr.Post("/", statusHandler.CreateStatus)
					sr.Get("/", statusHandler.ListStatuses)
					sr.Patch("/{id}", statusHandler.UpdateStatus)
					sr.Delete("/{id}", statusHandler.DeleteStatus)
				})
			}

			if shiftHandler != nil {
				pr.Route("/shifts", func(sr chi.Router) {
					sr.Post("/", shiftHandler.CreateShift)
					sr.Get("/", shiftHandler.ListShifts)
					sr.Patch("/{id}", shiftHandler.UpdateShift)
					sr.Delete("/{id}", shiftHandler.DeleteShift)
				})
			}

			if configHandler != nil {
				pr.Route("/configurations", func(cr chi.Router) {
					cr.Post("/", configHandler.CreateConfiguration)
					cr.Get("/", configHandler.ListConfigurations)
					cr.Get("/{id}", configHandler.GetConfiguration)
					cr.Patch("/{id}", configHandler.UpdateConfiguration)
					cr.Delete("/{id}", configHandler.DeleteConfiguration)
				})
			}

			if requestHandler != nil {
				pr.Route("/status-requests", func(rr chi.Router) {
					rr.Post("/", requestHandler.SubmitRequest)
					rr.Get("/", requestHandler.ListRequests)
					rr.Get("/me", requestHandler.MyRequests)
					rr.Get("/user/{userId}", requestHandler.UserRequests)
					rr.Patch("/emergency-briefing/{userId}", requestHandler.DecideEmergencyBriefing)
				})
			}
		})
	})
}
