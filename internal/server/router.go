// Package server wires handlers, middleware, and the chi router into the
// HTTP surface of the service.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	audithandler "contacthub/backend/internal/audit/handler"
	contacthandler "contacthub/backend/internal/contact/handler"
	healthhandler "contacthub/backend/internal/health/handler"
	identityservice "contacthub/backend/internal/identity/service"
	"contacthub/backend/internal/server/middleware"
	userdomain "contacthub/backend/internal/user/domain"
	userhandler "contacthub/backend/internal/user/handler"
)

// Deps holds the handler dependencies for the router.
type Deps struct {
	// Auth backs the Bearer-token gate on protected routes.
	Auth *identityservice.AuthService
	// Users serves registration, login, profile, and the admin listing.
	Users *userhandler.Handler
	// Contacts serves the owner-scoped contact CRUD.
	Contacts *contacthandler.Handler
	// AuditLogs serves the superuser-only audit trail read endpoints.
	AuditLogs *audithandler.Handler
	// HealthPinger is used for readiness (e.g. *sql.DB). If nil, /healthz skips the DB ping.
	HealthPinger healthhandler.Pinger
	// Log is the request logger.
	Log *zap.Logger
}

// NewRouter builds the route tree.
//
// Route → handler mapping:
//   - /api/v1/users      → internal/user/handler
//   - /api/v1/contacts   → internal/contact/handler
//   - /api/v1/audit-logs → internal/audit/handler (superuser only)
//   - /healthz           → internal/health/handler
func NewRouter(deps Deps) http.Handler {
	auth := middleware.NewAuth(deps.Auth, deps.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.ClientIP)

	r.Get("/healthz", healthhandler.NewHandler(deps.HealthPinger, deps.Log).Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", deps.Users.Register)
			r.Post("/login", deps.Users.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Require(userdomain.PrivilegeOrdinary))
				r.Get("/me", deps.Users.Me)
				r.Put("/me", deps.Users.UpdateMe)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.Require(userdomain.PrivilegeElevated))
				r.Get("/", deps.Users.List)
			})
		})

		r.Route("/audit-logs", func(r chi.Router) {
			r.Use(auth.Require(userdomain.PrivilegeElevated))
			r.Get("/", deps.AuditLogs.ListByUser)
			r.Get("/{id}", deps.AuditLogs.Get)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(auth.Require(userdomain.PrivilegeOrdinary))
			r.Get("/", deps.Contacts.List)
			r.Post("/", deps.Contacts.Create)
			r.Get("/{id}", deps.Contacts.Get)
			r.Put("/{id}", deps.Contacts.Update)
			r.Delete("/{id}", deps.Contacts.Delete)
		})
	})

	return r
}
