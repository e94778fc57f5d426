package handlers

import (
	"team-match-system/middleware"
	"team-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEngagementRoutes(app *fiber.App, engagementService *services.EngagementService, sessions *services.SessionService) {
	// Every invitation/application transition mutates shared state, so the
	// whole group sits behind the session gate.
	secured := app.Group("/", middleware.SessionMiddleware(sessions))

	// Invitations (leader → user)
	secured.Post("/invitations/teams/:team_id/invite", engagementService.SendInvitation)
	secured.Put("/invitations/:id/accept", engagementService.AcceptInvitation)
	secured.Put("/invitations/:id/reject", engagementService.RejectInvitation)
	secured.Get("/users/me/invitations", engagementService.ListMyInvitations)
	secured.Get("/invitations/teams/:team_id", engagementService.ListTeamInvitations)

	// Applications (user → team)
	secured.Post("/applications/teams/:team_id/apply", engagementService.Apply)
	secured.Put("/applications/:id/approve", engagementService.ApproveApplication)
	secured.Put("/applications/:id/reject", engagementService.RejectApplication)
	secured.Get("/users/me/applications", engagementService.ListMyApplications)
	secured.Get("/applications/teams/:team_id", engagementService.ListTeamApplications)
}
