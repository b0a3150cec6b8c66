package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/audit-chat-service/internal/api/http/handlers"
	"github.com/spec-kit/audit-chat-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	ChatBot       *handlers.ChatBotHandler
	Authenticator *auth.Authenticator
}

// RegisterRoutes wires HTTP routes. The authenticator runs for every route;
// protected groups additionally require a bound principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/isAuth", cfg.Authenticator.RequireAuth(), cfg.Auth.IsAuth)

	chatGroup := api.Group("/chat-bot", cfg.Authenticator.RequireAuth())
	chatGroup.Post("/ask/agent", cfg.ChatBot.Ask)
}
