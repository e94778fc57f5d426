package handlers

import (
	"team-match-system/middleware"
	"team-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, sessions *services.SessionService) {
	// 🔓 Public: skill catalog and (public-only) profile views
	public := app.Group("/", middleware.OptionalSessionMiddleware(sessions))
	public.Get("/skills", profileService.ListSkills)
	public.Get("/profiles/:user_id", profileService.GetProfile)

	// 🔐 Session-gated
	secured := app.Group("/", middleware.SessionMiddleware(sessions))
	secured.Get("/users/me/profile", profileService.GetMyProfile)
	secured.Put("/users/me/profile", profileService.SaveMyProfile)
	secured.Get("/users/me/skills", profileService.GetMySkills)
	secured.Put("/users/me/skills", profileService.SaveMySkills)

	// Teammate search against the local directory mirror
	secured.Get("/users/search", profileService.SearchUsers)
}
