package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"team-match-system/models"
)

// TeamService is the HTTP surface over the team collaborator. Leadership
// checks run here as well as server-side so a denied action surfaces as a
// denial, not a crash.
type TeamService struct {
	Teams    *TeamClient
	Sessions *SessionService
}

func NewTeamService(teams *TeamClient, sessions *SessionService) *TeamService {
	return &TeamService{Teams: teams, Sessions: sessions}
}

func (s *TeamService) GetTeam(c *fiber.Ctx) error {
	team, err := s.Teams.GetTeam(c.Context(), TokenFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	AnnotateTeam(team)
	return c.JSON(team)
}

func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	var body models.Team
	if err := c.BodyParser(&body); err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid team payload"))
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.ContestID == "" {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "name and contestId are required"))
	}
	if body.MaxMembers < 1 {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "maxMembers must be at least 1"))
	}
	switch body.ContactMethod {
	case "", models.ContactPlatform, models.ContactEmail, models.ContactKakao, models.ContactDiscord:
	default:
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "unknown contactMethod %q", body.ContactMethod))
	}

	// The creator becomes the sole leader regardless of what the payload says.
	body.LeaderID = sess.User.ID
	body.CreatedByUserID = sess.User.ID

	created, err := s.Teams.CreateTeam(c.Context(), sess.Token, &body)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	AnnotateTeam(created)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	teamID := c.Params("id")

	team, err := s.Teams.GetTeam(c.Context(), sess.Token, teamID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	if team.LeaderID != sess.User.ID {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindUnauthorized, "only the team leader can edit the team"))
	}

	var update TeamUpdate
	if err := c.BodyParser(&update); err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid team update payload"))
	}
	if update.MaxMembers != nil && *update.MaxMembers < team.CurrentMembers {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure,
				"maxMembers %d is below current member count %d", *update.MaxMembers, team.CurrentMembers))
	}

	updated, err := s.Teams.UpdateTeam(c.Context(), sess.Token, teamID, update)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	AnnotateTeam(updated)
	return c.JSON(updated)
}

// DeleteTeam soft-deactivates so historical invitations and applications
// stay resolvable.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	teamID := c.Params("id")

	team, err := s.Teams.GetTeam(c.Context(), sess.Token, teamID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	if team.LeaderID != sess.User.ID {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindUnauthorized, "only the team leader can delete the team"))
	}

	if err := s.Teams.DeleteTeam(c.Context(), sess.Token, teamID); err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(fiber.Map{"deleted": teamID})
}

func (s *TeamService) ListMyTeams(c *fiber.Ctx) error {
	teams, err := s.Teams.ListMyTeams(c.Context(), TokenFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	for i := range teams {
		AnnotateTeam(&teams[i])
	}
	return c.JSON(teams)
}

func (s *TeamService) ListAppliedTeams(c *fiber.Ctx) error {
	teams, err := s.Teams.ListAppliedTeams(c.Context(), TokenFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	for i := range teams {
		AnnotateTeam(&teams[i])
	}
	return c.JSON(teams)
}

func (s *TeamService) GetTeamMembers(c *fiber.Ctx) error {
	members, err := s.Teams.ListTeamMembers(c.Context(), TokenFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(members)
}

func (s *TeamService) LeaveTeam(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	teamID := c.Params("id")

	team, err := s.Teams.GetTeam(c.Context(), sess.Token, teamID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	if team.LeaderID == sess.User.ID {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindInvalidState, "the leader cannot leave; delete the team or hand over leadership"))
	}

	if err := s.Teams.LeaveTeam(c.Context(), sess.Token, teamID); err != nil {
		return respondEngineError(c, s.Sessions, err)
	}

	// Leaving frees a slot; recruiting may resume at the leader's choice, so
	// only report the new count.
	remaining := team.CurrentMembers - 1
	if remaining < 0 {
		remaining = 0
	}
	return c.JSON(fiber.Map{"left": teamID, "currentMembers": remaining})
}
