package handlers

import (
	"team-match-system/middleware"
	"team-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContestRoutes(app *fiber.App, contestService *services.ContestService, sessions *services.SessionService) {
	// 🔓 Public reads — status and daysLeft are annotated per request; a
	// session, when presented, only adds personalization (isLiked).
	public := app.Group("/", middleware.OptionalSessionMiddleware(sessions))
	public.Get("/contests/list", contestService.ListContests)
	public.Get("/contests/:id", contestService.GetContest)
	public.Get("/categories", contestService.ListCategories)

	// 🔐 Mutations require a live session
	secured := app.Group("/", middleware.SessionMiddleware(sessions))
	secured.Post("/contests", contestService.CreateContest)
	secured.Post("/contests/:id/favorite", contestService.ToggleFavorite)
	secured.Get("/users/me/favorites", contestService.ListFavorites)
}
