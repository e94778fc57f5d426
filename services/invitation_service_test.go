package services

import (
	"context"
	"sync"
	"testing"

	"team-match-system/models"
)

// fakeTeamAPI and fakeEngagementAPI are shared by the invitation and
// application machine tests. Unset function fields fail the test loudly.

type fakeTeamAPI struct {
	mu          sync.Mutex
	getTeam     func(ctx context.Context, token, teamID string) (*models.Team, error)
	updateTeam  func(ctx context.Context, token, teamID string, update TeamUpdate) (*models.Team, error)
	listMembers func(ctx context.Context, token, teamID string) ([]models.TeamMember, error)

	updates []TeamUpdate
}

func (f *fakeTeamAPI) GetTeam(ctx context.Context, token, teamID string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getTeam(ctx, token, teamID)
}

func (f *fakeTeamAPI) UpdateTeam(ctx context.Context, token, teamID string, update TeamUpdate) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.updateTeam == nil {
		return &models.Team{ID: teamID}, nil
	}
	return f.updateTeam(ctx, token, teamID, update)
}

func (f *fakeTeamAPI) ListTeamMembers(ctx context.Context, token, teamID string) ([]models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listMembers == nil {
		return nil, nil
	}
	return f.listMembers(ctx, token, teamID)
}

type fakeEngagementAPI struct {
	mu sync.Mutex

	sendInvitation    func(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error)
	getInvitation     func(ctx context.Context, token, invitationID string) (*models.Invitation, error)
	respondInvitation func(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error)
	teamInvitations   func(ctx context.Context, token, teamID string) ([]models.Invitation, error)
	userInvitations   func(ctx context.Context, token, userID string) ([]models.Invitation, error)

	applyToTeam        func(ctx context.Context, token, teamID, message string) (*models.Application, error)
	getApplication     func(ctx context.Context, token, applicationID string) (*models.Application, error)
	respondApplication func(ctx context.Context, token, applicationID, decision string) (*models.Application, error)
	teamApplications   func(ctx context.Context, token, teamID string) ([]models.Application, error)
	userApplications   func(ctx context.Context, token, userID string) ([]models.Application, error)
}

func (f *fakeEngagementAPI) SendInvitation(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendInvitation(ctx, token, teamID, recipientUserID, message)
}

func (f *fakeEngagementAPI) GetInvitation(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getInvitation(ctx, token, invitationID)
}

func (f *fakeEngagementAPI) RespondInvitation(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.respondInvitation(ctx, token, invitationID, decision)
}

func (f *fakeEngagementAPI) ListTeamInvitations(ctx context.Context, token, teamID string) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.teamInvitations == nil {
		return nil, nil
	}
	return f.teamInvitations(ctx, token, teamID)
}

func (f *fakeEngagementAPI) ListInvitations(ctx context.Context, token, userID string) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userInvitations(ctx, token, userID)
}

func (f *fakeEngagementAPI) ApplyToTeam(ctx context.Context, token, teamID, message string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyToTeam(ctx, token, teamID, message)
}

func (f *fakeEngagementAPI) GetApplication(ctx context.Context, token, applicationID string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getApplication(ctx, token, applicationID)
}

func (f *fakeEngagementAPI) RespondApplication(ctx context.Context, token, applicationID, decision string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.respondApplication(ctx, token, applicationID, decision)
}

func (f *fakeEngagementAPI) ListTeamApplications(ctx context.Context, token, teamID string) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teamApplications(ctx, token, teamID)
}

func (f *fakeEngagementAPI) ListApplications(ctx context.Context, token, userID string) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userApplications == nil {
		return nil, nil
	}
	return f.userApplications(ctx, token, userID)
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushed []string // "userID:event"
}

func (f *fakeNotifier) Push(ctx context.Context, userID, event, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, userID+":"+event)
}

func leaderSession() *models.Session {
	return &models.Session{
		Token: "leader-token",
		User:  &models.User{ID: "leader-1", Username: "jiho"},
	}
}

func memberSession() *models.Session {
	return &models.Session{
		Token: "member-token",
		User:  &models.User{ID: "user-2", Username: "mina"},
	}
}

func recruitingTeam() *models.Team {
	return &models.Team{
		ID:               "team-1",
		Name:             "Hack Crew",
		LeaderID:         "leader-1",
		MaxMembers:       4,
		CurrentMembers:   2,
		IsRecruiting:     true,
		AllowDirectApply: true,
	}
}

func staticTeam(t *models.Team) func(ctx context.Context, token, teamID string) (*models.Team, error) {
	return func(ctx context.Context, token, teamID string) (*models.Team, error) {
		snapshot := *t
		return &snapshot, nil
	}
}

func TestInvitationSend(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	engage := &fakeEngagementAPI{
		sendInvitation: func(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error) {
			return &models.Invitation{
				ID: "inv-1", TeamID: teamID, SenderID: "leader-1",
				RecipientUserID: recipientUserID, Message: message,
				Status: models.InvitationPending,
			}, nil
		},
	}
	notify := &fakeNotifier{}
	svc := NewInvitationService(teams, engage, notify)

	inv, err := svc.Send(context.Background(), leaderSession(), "team-1", "user-2", "join us")
	if err != nil {
		t.Fatalf("Send() = %v, want nil", err)
	}
	if inv.Status != models.InvitationPending {
		t.Errorf("new invitation status = %s, want PENDING", inv.Status)
	}
	if len(notify.pushed) != 1 || notify.pushed[0] != "user-2:"+EventInvitationSent {
		t.Errorf("notifications = %v, want [user-2:%s]", notify.pushed, EventInvitationSent)
	}
}

func TestInvitationSendRejectsDuplicatePending(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	engage := &fakeEngagementAPI{
		teamInvitations: func(ctx context.Context, token, teamID string) ([]models.Invitation, error) {
			return []models.Invitation{
				{ID: "inv-0", TeamID: teamID, RecipientUserID: "user-2", Status: models.InvitationPending},
			}, nil
		},
	}
	svc := NewInvitationService(teams, engage, &fakeNotifier{})

	_, err := svc.Send(context.Background(), leaderSession(), "team-1", "user-2", "again?")
	if !models.IsKind(err, models.KindDuplicateInvitation) {
		t.Fatalf("Send() kind = %s, want DUPLICATE_INVITATION", models.KindOf(err))
	}
}

func TestInvitationSendResolvedInviteDoesNotBlockResend(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	engage := &fakeEngagementAPI{
		teamInvitations: func(ctx context.Context, token, teamID string) ([]models.Invitation, error) {
			return []models.Invitation{
				{ID: "inv-0", TeamID: teamID, RecipientUserID: "user-2", Status: models.InvitationRejected},
			}, nil
		},
		sendInvitation: func(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error) {
			return &models.Invitation{ID: "inv-1", Status: models.InvitationPending}, nil
		},
	}
	svc := NewInvitationService(teams, engage, &fakeNotifier{})

	if _, err := svc.Send(context.Background(), leaderSession(), "team-1", "user-2", "try again"); err != nil {
		t.Fatalf("Send() after a rejected invitation = %v, want nil", err)
	}
}

func TestInvitationSendGuards(t *testing.T) {
	full := recruitingTeam()
	full.CurrentMembers = full.MaxMembers

	closed := recruitingTeam()
	closed.IsRecruiting = false

	cases := []struct {
		name      string
		sess      *models.Session
		team      *models.Team
		recipient string
		message   string
		wantKind  models.ErrorKind
	}{
		{"non-leader cannot send", memberSession(), recruitingTeam(), "user-3", "hi", models.KindUnauthorized},
		{"full team refuses", leaderSession(), full, "user-3", "hi", models.KindCapacityExceeded},
		{"not recruiting refuses", leaderSession(), closed, "user-3", "hi", models.KindInvalidState},
		{"self-invitation refused", leaderSession(), recruitingTeam(), "leader-1", "hi", models.KindValidationFailure},
		{"empty message refused", leaderSession(), recruitingTeam(), "user-3", "   ", models.KindValidationFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			teams := &fakeTeamAPI{getTeam: staticTeam(tc.team)}
			svc := NewInvitationService(teams, &fakeEngagementAPI{}, &fakeNotifier{})
			_, err := svc.Send(context.Background(), tc.sess, tc.team.ID, tc.recipient, tc.message)
			if !models.IsKind(err, tc.wantKind) {
				t.Errorf("Send() kind = %s, want %s", models.KindOf(err), tc.wantKind)
			}
		})
	}
}

func TestInvitationSendRefusesExistingMember(t *testing.T) {
	teams := &fakeTeamAPI{
		getTeam: staticTeam(recruitingTeam()),
		listMembers: func(ctx context.Context, token, teamID string) ([]models.TeamMember, error) {
			return []models.TeamMember{{UserID: "user-2", Username: "mina"}}, nil
		},
	}
	svc := NewInvitationService(teams, &fakeEngagementAPI{}, &fakeNotifier{})

	_, err := svc.Send(context.Background(), leaderSession(), "team-1", "user-2", "join")
	if !models.IsKind(err, models.KindInvalidState) {
		t.Fatalf("Send() to existing member kind = %s, want INVALID_STATE", models.KindOf(err))
	}
}

func TestInvitationAcceptFillsLastSlot(t *testing.T) {
	team := recruitingTeam()
	team.CurrentMembers = 3 // one slot left

	teams := &fakeTeamAPI{}
	teams.getTeam = func(ctx context.Context, token, teamID string) (*models.Team, error) {
		snapshot := *team
		return &snapshot, nil
	}

	engage := &fakeEngagementAPI{
		getInvitation: func(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
			return &models.Invitation{
				ID: invitationID, TeamID: "team-1", SenderID: "leader-1",
				RecipientUserID: "user-2", Status: models.InvitationPending,
			}, nil
		},
		respondInvitation: func(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error) {
			if decision != "accept" {
				t.Errorf("decision = %q, want accept", decision)
			}
			team.CurrentMembers++ // the engagement service commits the membership
			return &models.Invitation{ID: invitationID, Status: models.InvitationAccepted}, nil
		},
	}
	notify := &fakeNotifier{}
	svc := NewInvitationService(teams, engage, notify)

	accepted, err := svc.Accept(context.Background(), memberSession(), "inv-1")
	if err != nil {
		t.Fatalf("Accept() = %v, want nil", err)
	}
	if accepted.Status != models.InvitationAccepted {
		t.Errorf("status = %s, want ACCEPTED", accepted.Status)
	}

	// Team hit 4/4: recruiting must have been flipped off.
	if len(teams.updates) != 1 {
		t.Fatalf("team updates = %d, want 1 (recruiting flip)", len(teams.updates))
	}
	if got := teams.updates[0].IsRecruiting; got == nil || *got {
		t.Errorf("update.IsRecruiting = %v, want false", got)
	}
	if len(notify.pushed) != 1 || notify.pushed[0] != "leader-1:"+EventInvitationAccepted {
		t.Errorf("notifications = %v, want [leader-1:%s]", notify.pushed, EventInvitationAccepted)
	}
}

func TestInvitationAcceptCapacityRefusalKeepsPending(t *testing.T) {
	full := recruitingTeam()
	full.CurrentMembers = full.MaxMembers

	teams := &fakeTeamAPI{getTeam: staticTeam(full)}
	responded := false
	engage := &fakeEngagementAPI{
		getInvitation: func(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
			return &models.Invitation{
				ID: invitationID, TeamID: "team-1",
				RecipientUserID: "user-2", Status: models.InvitationPending,
			}, nil
		},
		respondInvitation: func(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error) {
			responded = true
			return nil, nil
		},
	}
	svc := NewInvitationService(teams, engage, &fakeNotifier{})

	_, err := svc.Accept(context.Background(), memberSession(), "inv-1")
	if !models.IsKind(err, models.KindCapacityExceeded) {
		t.Fatalf("Accept() kind = %s, want CAPACITY_EXCEEDED", models.KindOf(err))
	}
	if responded {
		t.Error("RespondInvitation was dispatched despite a full team")
	}
}

func TestInvitationTerminalIsImmutable(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	engage := &fakeEngagementAPI{
		getInvitation: func(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
			return &models.Invitation{
				ID: invitationID, TeamID: "team-1",
				RecipientUserID: "user-2", Status: models.InvitationAccepted,
			}, nil
		},
	}
	svc := NewInvitationService(teams, engage, &fakeNotifier{})

	if _, err := svc.Accept(context.Background(), memberSession(), "inv-1"); !models.IsKind(err, models.KindInvalidState) {
		t.Errorf("Accept() on terminal invitation kind = %s, want INVALID_STATE", models.KindOf(err))
	}
	if _, err := svc.Reject(context.Background(), memberSession(), "inv-1"); !models.IsKind(err, models.KindInvalidState) {
		t.Errorf("Reject() on terminal invitation kind = %s, want INVALID_STATE", models.KindOf(err))
	}
}

func TestInvitationRespondRecipientOnly(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	engage := &fakeEngagementAPI{
		getInvitation: func(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
			return &models.Invitation{
				ID: invitationID, TeamID: "team-1",
				RecipientUserID: "someone-else", Status: models.InvitationPending,
			}, nil
		},
	}
	svc := NewInvitationService(teams, engage, &fakeNotifier{})

	if _, err := svc.Accept(context.Background(), memberSession(), "inv-1"); !models.IsKind(err, models.KindUnauthorized) {
		t.Errorf("Accept() by non-recipient kind = %s, want UNAUTHORIZED", models.KindOf(err))
	}
}

func TestInvitationListForTeamLeaderOnly(t *testing.T) {
	teams := &fakeTeamAPI{getTeam: staticTeam(recruitingTeam())}
	svc := NewInvitationService(teams, &fakeEngagementAPI{}, &fakeNotifier{})

	if _, err := svc.ListForTeam(context.Background(), memberSession(), "team-1"); !models.IsKind(err, models.KindUnauthorized) {
		t.Errorf("ListForTeam() by non-leader kind = %s, want UNAUTHORIZED", models.KindOf(err))
	}
}
