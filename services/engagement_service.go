package services

import (
	"github.com/gofiber/fiber/v2"

	"team-match-system/models"
)

// EngagementService exposes the invitation and application state machines
// over HTTP. The session middleware has already gated these routes; handlers
// only parse, delegate, and map the discriminated result.
type EngagementService struct {
	Invitations  *InvitationService
	Applications *ApplicationService
	Sessions     *SessionService
}

func NewEngagementService(inv *InvitationService, app *ApplicationService, sessions *SessionService) *EngagementService {
	return &EngagementService{Invitations: inv, Applications: app, Sessions: sessions}
}

func (s *EngagementService) SendInvitation(c *fiber.Ctx) error {
	var body struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid invitation payload"))
	}

	inv, err := s.Invitations.Send(c.Context(), SessionFromCtx(c), c.Params("team_id"), body.UserID, body.Message)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

func (s *EngagementService) AcceptInvitation(c *fiber.Ctx) error {
	inv, err := s.Invitations.Accept(c.Context(), SessionFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(inv)
}

func (s *EngagementService) RejectInvitation(c *fiber.Ctx) error {
	inv, err := s.Invitations.Reject(c.Context(), SessionFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(inv)
}

func (s *EngagementService) ListMyInvitations(c *fiber.Ctx) error {
	invs, err := s.Invitations.ListForUser(c.Context(), SessionFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(invs)
}

func (s *EngagementService) ListTeamInvitations(c *fiber.Ctx) error {
	invs, err := s.Invitations.ListForTeam(c.Context(), SessionFromCtx(c), c.Params("team_id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(invs)
}

func (s *EngagementService) Apply(c *fiber.Ctx) error {
	var body struct {
		Message string `json:"message"`
	}
	// Message is optional for applications; ignore an empty body.
	_ = c.BodyParser(&body)

	app, err := s.Applications.Apply(c.Context(), SessionFromCtx(c), c.Params("team_id"), body.Message)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (s *EngagementService) ApproveApplication(c *fiber.Ctx) error {
	app, err := s.Applications.Approve(c.Context(), SessionFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(app)
}

func (s *EngagementService) RejectApplication(c *fiber.Ctx) error {
	app, err := s.Applications.Reject(c.Context(), SessionFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(app)
}

func (s *EngagementService) ListMyApplications(c *fiber.Ctx) error {
	apps, err := s.Applications.ListForUser(c.Context(), SessionFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(apps)
}

func (s *EngagementService) ListTeamApplications(c *fiber.Ctx) error {
	apps, err := s.Applications.ListForTeam(c.Context(), SessionFromCtx(c), c.Params("team_id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(apps)
}
