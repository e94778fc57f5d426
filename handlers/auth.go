package handlers

import (
	"team-match-system/middleware"
	"team-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, sessions *services.SessionService) {
	// 🔓 Public: entry points into a session
	app.Post("/auth/refresh", authService.Refresh)
	app.Post("/auth/login", authService.Login)
	app.Post("/auth/register", authService.Register)

	// 🔐 Session-gated
	secured := app.Group("/", middleware.SessionMiddleware(sessions))
	secured.Get("/users/me", authService.Me)
	secured.Post("/auth/logout", authService.Logout)
}
