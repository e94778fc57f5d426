package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"team-match-system/models"
)

// EngagementClient talks to the invitation/application service, which holds
// the authoritative records. Conflict responses map to duplicate or capacity
// errors depending on the call: the service's ordering is ground truth for
// races this client cannot see.
type EngagementClient struct {
	BaseURL string
	Client  *http.Client
}

func NewEngagementClient(baseURL string) *EngagementClient {
	return &EngagementClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *EngagementClient) SendInvitation(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error) {
	in := map[string]string{"userId": recipientUserID, "message": message}
	var out models.Invitation
	u := fmt.Sprintf("%s/api/invitations/teams/%s/invite", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodPost, u, token, in, &out, models.KindDuplicateInvitation); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngagementClient) GetInvitation(ctx context.Context, token, invitationID string) (*models.Invitation, error) {
	var out models.Invitation
	u := fmt.Sprintf("%s/api/invitations/%s", c.BaseURL, url.PathEscape(invitationID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

// RespondInvitation commits an accept or reject. A 409 here means the team
// filled between our precondition check and the commit.
func (c *EngagementClient) RespondInvitation(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error) {
	var out models.Invitation
	u := fmt.Sprintf("%s/api/invitations/%s/%s", c.BaseURL, url.PathEscape(invitationID), decision)
	if err := doJSON(ctx, c.Client, http.MethodPut, u, token, nil, &out, models.KindCapacityExceeded); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngagementClient) ListTeamInvitations(ctx context.Context, token, teamID string) ([]models.Invitation, error) {
	var out []models.Invitation
	u := fmt.Sprintf("%s/api/invitations/teams/%s", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EngagementClient) ListInvitations(ctx context.Context, token, userID string) ([]models.Invitation, error) {
	var out []models.Invitation
	u := fmt.Sprintf("%s/api/invitations/users/%s", c.BaseURL, url.PathEscape(userID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EngagementClient) ApplyToTeam(ctx context.Context, token, teamID, message string) (*models.Application, error) {
	in := map[string]string{"message": message}
	var out models.Application
	u := fmt.Sprintf("%s/api/applications/teams/%s/apply", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodPost, u, token, in, &out, models.KindDuplicateApplication); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngagementClient) GetApplication(ctx context.Context, token, applicationID string) (*models.Application, error) {
	var out models.Application
	u := fmt.Sprintf("%s/api/applications/%s", c.BaseURL, url.PathEscape(applicationID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngagementClient) RespondApplication(ctx context.Context, token, applicationID, decision string) (*models.Application, error) {
	var out models.Application
	u := fmt.Sprintf("%s/api/applications/%s/%s", c.BaseURL, url.PathEscape(applicationID), decision)
	if err := doJSON(ctx, c.Client, http.MethodPut, u, token, nil, &out, models.KindCapacityExceeded); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngagementClient) ListTeamApplications(ctx context.Context, token, teamID string) ([]models.Application, error) {
	var out []models.Application
	u := fmt.Sprintf("%s/api/applications/teams/%s", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EngagementClient) ListApplications(ctx context.Context, token, userID string) ([]models.Application, error) {
	var out []models.Application
	u := fmt.Sprintf("%s/api/applications/users/%s", c.BaseURL, url.PathEscape(userID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}
