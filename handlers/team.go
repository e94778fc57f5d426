package handlers

import (
	"team-match-system/middleware"
	"team-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, placeService *services.PlaceService, sessions *services.SessionService) {
	// 🔓 Public team reads
	public := app.Group("/", middleware.OptionalSessionMiddleware(sessions))
	public.Get("/teams/:id", teamService.GetTeam)
	public.Get("/teams/:id/members", teamService.GetTeamMembers)

	// 🔐 Session-gated
	secured := app.Group("/", middleware.SessionMiddleware(sessions))

	// Team CRUD (leader checks inside the service)
	secured.Post("/teams", teamService.CreateTeam)
	secured.Patch("/teams/:id", teamService.UpdateTeam)
	secured.Put("/teams/:id", teamService.UpdateTeam)
	secured.Delete("/teams/:id", teamService.DeleteTeam)
	secured.Delete("/teams/:id/members/me", teamService.LeaveTeam)

	// My-page listings
	secured.Get("/mypage/teams", teamService.ListMyTeams)
	secured.Get("/mypage/applied-teams", teamService.ListAppliedTeams)

	// Location typeahead feeding the team/contest location field
	secured.Get("/places/search", placeService.SearchPlaces)
	secured.Get("/places/reverse-geocode", placeService.ReverseGeocode)
	secured.Get("/places/geocode", placeService.ForwardGeocode)
}
