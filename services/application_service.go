package services

import (
	"context"
	"log"
	"strings"

	"team-match-system/models"
)

// ApplicationService is the mirror of the invitation machine with applicant
// and leader roles swapped: PENDING → {APPROVED, REJECTED}, both terminal.
type ApplicationService struct {
	Teams  teamAPI
	Engage engagementAPI
	Notify notifier
}

func NewApplicationService(teams teamAPI, engage engagementAPI, notify notifier) *ApplicationService {
	return &ApplicationService{Teams: teams, Engage: engage, Notify: notify}
}

// Apply creates a PENDING application: non-members only, the team must be
// recruiting with a free slot and allow direct applications, and at most one
// PENDING application may exist per (team, applicant).
func (s *ApplicationService) Apply(ctx context.Context, sess *models.Session, teamID, message string) (*models.Application, error) {
	message = strings.TrimSpace(message)
	if teamID == "" {
		return nil, models.E(models.KindValidationFailure, "teamId is required")
	}

	team, err := s.Teams.GetTeam(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsRecruiting {
		return nil, models.E(models.KindInvalidState, "team is not recruiting")
	}
	if !team.AllowDirectApply {
		return nil, models.E(models.KindInvalidState, "team does not accept direct applications")
	}
	if err := TeamCapacity(team).CheckRoom(); err != nil {
		return nil, err
	}

	members, err := s.Teams.ListTeamMembers(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == sess.User.ID {
			return nil, models.E(models.KindInvalidState, "you are already a member of this team")
		}
	}

	mine, err := s.Engage.ListApplications(ctx, sess.Token, sess.User.ID)
	if err != nil {
		return nil, err
	}
	for _, app := range mine {
		if app.TeamID == teamID && app.Status == models.ApplicationPending {
			return nil, models.E(models.KindDuplicateApplication, "your application to this team is already pending")
		}
	}

	app, err := s.Engage.ApplyToTeam(ctx, sess.Token, teamID, message)
	if err != nil {
		return nil, err
	}

	s.Notify.Push(ctx, team.LeaderID, EventApplicationReceived, sess.User.Username+" applied to team "+team.Name)
	return app, nil
}

// Approve moves a PENDING application to APPROVED and makes the applicant a
// member, subject to the capacity precondition revalidated right before the
// commit. On a cross-client race the engagement service's rejection wins and
// surfaces as CapacityExceeded with the application left PENDING.
func (s *ApplicationService) Approve(ctx context.Context, sess *models.Session, applicationID string) (*models.Application, error) {
	app, team, err := s.loadForLeader(ctx, sess, applicationID)
	if err != nil {
		return nil, err
	}

	if err := TeamCapacity(team).CheckRoom(); err != nil {
		return nil, err
	}

	approved, err := s.Engage.RespondApplication(ctx, sess.Token, applicationID, "approve")
	if err != nil {
		return nil, err
	}

	s.reconcileCapacity(ctx, sess.Token, team)
	s.Notify.Push(ctx, app.ApplicantID, EventApplicationApproved, "Your application to team "+team.Name+" was approved")
	return approved, nil
}

// Reject moves a PENDING application to REJECTED unconditionally.
func (s *ApplicationService) Reject(ctx context.Context, sess *models.Session, applicationID string) (*models.Application, error) {
	app, team, err := s.loadForLeader(ctx, sess, applicationID)
	if err != nil {
		return nil, err
	}

	rejected, err := s.Engage.RespondApplication(ctx, sess.Token, applicationID, "reject")
	if err != nil {
		return nil, err
	}

	s.Notify.Push(ctx, app.ApplicantID, EventApplicationRejected, "Your application to team "+team.Name+" was declined")
	return rejected, nil
}

// ListForUser returns the caller's applications (any status).
func (s *ApplicationService) ListForUser(ctx context.Context, sess *models.Session) ([]models.Application, error) {
	return s.Engage.ListApplications(ctx, sess.Token, sess.User.ID)
}

// ListForTeam returns a team's applications; leader only.
func (s *ApplicationService) ListForTeam(ctx context.Context, sess *models.Session, teamID string) ([]models.Application, error) {
	team, err := s.Teams.GetTeam(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != sess.User.ID {
		return nil, models.E(models.KindUnauthorized, "only the team leader can view team applications")
	}
	return s.Engage.ListTeamApplications(ctx, sess.Token, teamID)
}

// loadForLeader fetches an application plus its team and checks the caller
// leads that team and the application is still PENDING.
func (s *ApplicationService) loadForLeader(ctx context.Context, sess *models.Session, applicationID string) (*models.Application, *models.Team, error) {
	if applicationID == "" {
		return nil, nil, models.E(models.KindValidationFailure, "application id is required")
	}
	app, err := s.Engage.GetApplication(ctx, sess.Token, applicationID)
	if err != nil {
		return nil, nil, err
	}
	team, err := s.Teams.GetTeam(ctx, sess.Token, app.TeamID)
	if err != nil {
		return nil, nil, err
	}
	if team.LeaderID != sess.User.ID {
		return nil, nil, models.E(models.KindUnauthorized, "only the team leader can decide applications")
	}
	if app.Terminal() {
		return nil, nil, models.E(models.KindInvalidState, "application already %s", app.Status)
	}
	if app.Status != models.ApplicationPending {
		return nil, nil, models.E(models.KindInvalidState, "application is %s, not PENDING", app.Status)
	}
	return app, team, nil
}

func (s *ApplicationService) reconcileCapacity(ctx context.Context, token string, stale *models.Team) {
	team, err := s.Teams.GetTeam(ctx, token, stale.ID)
	if err != nil {
		team = stale
		team.CurrentMembers++
	}
	if team.IsRecruiting && TeamCapacity(team).IsFull() {
		off := false
		if _, err := s.Teams.UpdateTeam(ctx, token, team.ID, TeamUpdate{IsRecruiting: &off}); err != nil {
			log.Printf("⚠️ [APPLY] could not flip isRecruiting for full team %s: %v", team.ID, err)
		}
	}
}
