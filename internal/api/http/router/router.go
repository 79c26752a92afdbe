package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/contactbook-server/internal/api/http/handler"
	"github.com/dtroode/contactbook-server/internal/api/http/middleware"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// Services groups the dependencies exposed over HTTP.
type Services struct {
	Auth          handler.AuthService
	Users         handler.UserService
	Contacts      handler.ContactService
	Health        handler.HealthChecker
	Authenticator middleware.Authenticator
}

// Router builds the HTTP handler tree.
type Router struct {
	services       Services
	contextManager model.ContextManager
	rateLimit      *middleware.RateLimit
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	services Services,
	contextManager model.ContextManager,
	rateLimit *middleware.RateLimit,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		contextManager: contextManager,
		rateLimit:      rateLimit,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register wires middleware and routes and returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Authenticator, r.contextManager, r.logger)
	requireAdmin := middleware.NewRequireAdmin(r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.services.Auth, r.contextManager, r.logger)
	userHandler := handler.NewUser(r.services.Users, r.contextManager, r.logger)
	contactHandler := handler.NewContact(r.services.Contacts, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.services.Health, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.Timeout(60 * time.Second))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", healthHandler.Liveness)

	mux.Route("/api", func(api chi.Router) {
		api.Get("/healthchecker", healthHandler.Database)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh-token", authHandler.Refresh)
			auth.With(authenticate.Handle).Post("/logout", authHandler.Logout)
			auth.Post("/request_email", authHandler.RequestEmail)
			auth.Get("/confirmed_email/{token}", authHandler.ConfirmEmail)
			auth.Post("/request_password_reset", authHandler.RequestPasswordReset)
			auth.Post("/reset_password", authHandler.ResetPassword)
		})

		api.Route("/users", func(users chi.Router) {
			users.Get("/public", userHandler.Public)

			users.Group(func(authed chi.Router) {
				authed.Use(authenticate.Handle)
				authed.With(r.rateLimit.Handle).Get("/me", userHandler.Me)

				authed.Group(func(admin chi.Router) {
					admin.Use(requireAdmin.Handle)
					admin.Patch("/avatar", userHandler.UpdateAvatar)
					admin.Get("/admin", userHandler.Admin)
				})
			})
		})

		api.Route("/contacts", func(contacts chi.Router) {
			contacts.Use(authenticate.Handle)
			contacts.Get("/", contactHandler.List)
			contacts.Post("/", contactHandler.Create)
			contacts.Get("/birthdays", contactHandler.Birthdays)
			contacts.Get("/{id}", contactHandler.Get)
			contacts.Put("/{id}", contactHandler.Update)
			contacts.Delete("/{id}", contactHandler.Delete)
		})
	})

	return mux
}
