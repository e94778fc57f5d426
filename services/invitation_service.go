package services

import (
	"context"
	"log"
	"strings"

	"team-match-system/models"
)

// InvitationService drives the leader→user invitation state machine:
// PENDING → {ACCEPTED, REJECTED}, both terminal. It holds no invitation
// records itself; the engagement service is authoritative and this machine
// enforces preconditions, commits, and reconciles.
type InvitationService struct {
	Teams  teamAPI
	Engage engagementAPI
	Notify notifier
}

func NewInvitationService(teams teamAPI, engage engagementAPI, notify notifier) *InvitationService {
	return &InvitationService{Teams: teams, Engage: engage, Notify: notify}
}

// Send creates a PENDING invitation. Only the team leader may send, the team
// must be recruiting with a free slot, and at most one PENDING invitation may
// exist per (team, recipient).
func (s *InvitationService) Send(ctx context.Context, sess *models.Session, teamID, recipientUserID, message string) (*models.Invitation, error) {
	message = strings.TrimSpace(message)
	if teamID == "" || recipientUserID == "" {
		return nil, models.E(models.KindValidationFailure, "teamId and userId are required")
	}
	if message == "" {
		return nil, models.E(models.KindValidationFailure, "invitation message is required")
	}
	if recipientUserID == sess.User.ID {
		return nil, models.E(models.KindValidationFailure, "cannot invite yourself")
	}

	team, err := s.Teams.GetTeam(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != sess.User.ID {
		return nil, models.E(models.KindUnauthorized, "only the team leader can send invitations")
	}
	if !team.IsRecruiting {
		return nil, models.E(models.KindInvalidState, "team is not recruiting")
	}
	if err := TeamCapacity(team).CheckRoom(); err != nil {
		return nil, err
	}

	members, err := s.Teams.ListTeamMembers(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == recipientUserID {
			return nil, models.E(models.KindInvalidState, "user is already a team member")
		}
	}

	pending, err := s.Engage.ListTeamInvitations(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	for _, inv := range pending {
		if inv.RecipientUserID == recipientUserID && inv.Status == models.InvitationPending {
			return nil, models.E(models.KindDuplicateInvitation, "an invitation to this user is already pending")
		}
	}

	inv, err := s.Engage.SendInvitation(ctx, sess.Token, teamID, recipientUserID, message)
	if err != nil {
		return nil, err
	}

	s.Notify.Push(ctx, recipientUserID, EventInvitationSent, "You were invited to team "+team.Name)
	return inv, nil
}

// Accept moves a PENDING invitation to ACCEPTED and makes the recipient a
// member. The capacity precondition is revalidated against a fresh team read
// immediately before the commit; if the team filled through another channel
// in the interim, the invitation stays PENDING and the caller gets
// CapacityExceeded to re-evaluate against.
func (s *InvitationService) Accept(ctx context.Context, sess *models.Session, invitationID string) (*models.Invitation, error) {
	inv, err := s.loadOwn(ctx, sess, invitationID)
	if err != nil {
		return nil, err
	}

	team, err := s.Teams.GetTeam(ctx, sess.Token, inv.TeamID)
	if err != nil {
		return nil, err
	}
	if err := TeamCapacity(team).CheckRoom(); err != nil {
		return nil, err
	}

	accepted, err := s.Engage.RespondInvitation(ctx, sess.Token, invitationID, "accept")
	if err != nil {
		// The engagement service's rejection is ground truth; the invitation
		// remains PENDING on a capacity conflict.
		return nil, err
	}

	s.reconcileCapacity(ctx, sess.Token, team)
	s.Notify.Push(ctx, inv.SenderID, EventInvitationAccepted, sess.User.Username+" accepted your invitation")
	return accepted, nil
}

// Reject moves a PENDING invitation to REJECTED unconditionally.
func (s *InvitationService) Reject(ctx context.Context, sess *models.Session, invitationID string) (*models.Invitation, error) {
	inv, err := s.loadOwn(ctx, sess, invitationID)
	if err != nil {
		return nil, err
	}

	rejected, err := s.Engage.RespondInvitation(ctx, sess.Token, invitationID, "reject")
	if err != nil {
		return nil, err
	}

	s.Notify.Push(ctx, inv.SenderID, EventInvitationRejected, sess.User.Username+" declined your invitation")
	return rejected, nil
}

// ListForUser returns the caller's invitations (any status).
func (s *InvitationService) ListForUser(ctx context.Context, sess *models.Session) ([]models.Invitation, error) {
	return s.Engage.ListInvitations(ctx, sess.Token, sess.User.ID)
}

// ListForTeam returns a team's invitations; leader only.
func (s *InvitationService) ListForTeam(ctx context.Context, sess *models.Session, teamID string) ([]models.Invitation, error) {
	team, err := s.Teams.GetTeam(ctx, sess.Token, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != sess.User.ID {
		return nil, models.E(models.KindUnauthorized, "only the team leader can view team invitations")
	}
	return s.Engage.ListTeamInvitations(ctx, sess.Token, teamID)
}

// loadOwn fetches an invitation and checks the caller is its recipient and
// that it is still PENDING. Terminal invitations are immutable.
func (s *InvitationService) loadOwn(ctx context.Context, sess *models.Session, invitationID string) (*models.Invitation, error) {
	if invitationID == "" {
		return nil, models.E(models.KindValidationFailure, "invitation id is required")
	}
	inv, err := s.Engage.GetInvitation(ctx, sess.Token, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.RecipientUserID != sess.User.ID {
		return nil, models.E(models.KindUnauthorized, "only the recipient can respond to this invitation")
	}
	if inv.Terminal() {
		return nil, models.E(models.KindInvalidState, "invitation already %s", inv.Status)
	}
	if inv.Status != models.InvitationPending {
		return nil, models.E(models.KindInvalidState, "invitation is %s, not PENDING", inv.Status)
	}
	return inv, nil
}

// reconcileCapacity flips isRecruiting off once the last slot is taken. Done
// with a fresh read after the commit so the authoritative count wins over
// our local increment.
func (s *InvitationService) reconcileCapacity(ctx context.Context, token string, stale *models.Team) {
	team, err := s.Teams.GetTeam(ctx, token, stale.ID)
	if err != nil {
		// Fall back to the optimistic count; the next read reconciles.
		team = stale
		team.CurrentMembers++
	}
	if team.IsRecruiting && TeamCapacity(team).IsFull() {
		off := false
		if _, err := s.Teams.UpdateTeam(ctx, token, team.ID, TeamUpdate{IsRecruiting: &off}); err != nil {
			log.Printf("⚠️ [INVITE] could not flip isRecruiting for full team %s: %v", team.ID, err)
		}
	}
}
