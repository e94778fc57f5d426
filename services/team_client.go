package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"team-match-system/models"
)

// TeamUpdate is a partial team mutation. Nil fields are left untouched by the
// team service.
type TeamUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	MaxMembers    *int      `json:"maxMembers,omitempty"`
	IsRecruiting  *bool     `json:"isRecruiting,omitempty"`
	IsPublic      *bool     `json:"isPublic,omitempty"`
	NeededRoles   *[]string `json:"neededRoles,omitempty"`
	Skills        *[]string `json:"skills,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Requirements  *string   `json:"requirements,omitempty"`
	ContactMethod *string   `json:"contactMethod,omitempty"`
	ContactInfo   *string   `json:"contactInfo,omitempty"`
}

// TeamClient talks to the team service.
type TeamClient struct {
	BaseURL string
	Client  *http.Client
}

func NewTeamClient(baseURL string) *TeamClient {
	return &TeamClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TeamClient) GetTeam(ctx context.Context, token, teamID string) (*models.Team, error) {
	var out models.Team
	u := fmt.Sprintf("%s/api/teams/%s", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TeamClient) CreateTeam(ctx context.Context, token string, team *models.Team) (*models.Team, error) {
	var out models.Team
	u := fmt.Sprintf("%s/api/teams", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodPost, u, token, team, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TeamClient) UpdateTeam(ctx context.Context, token, teamID string, update TeamUpdate) (*models.Team, error) {
	var out models.Team
	u := fmt.Sprintf("%s/api/teams/%s", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodPatch, u, token, update, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeam soft-deactivates: the team service stops recruiting and hides
// the team, keeping historical invitations and applications resolvable.
func (c *TeamClient) DeleteTeam(ctx context.Context, token, teamID string) error {
	u := fmt.Sprintf("%s/api/teams/%s", c.BaseURL, url.PathEscape(teamID))
	return doJSON(ctx, c.Client, http.MethodDelete, u, token, nil, nil, models.KindInvalidState)
}

func (c *TeamClient) ListMyTeams(ctx context.Context, token string) ([]models.Team, error) {
	var out []models.Team
	u := fmt.Sprintf("%s/api/teams/mine", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TeamClient) ListAppliedTeams(ctx context.Context, token string) ([]models.Team, error) {
	var out []models.Team
	u := fmt.Sprintf("%s/api/teams/applied", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TeamClient) ListTeamMembers(ctx context.Context, token, teamID string) ([]models.TeamMember, error) {
	var out []models.TeamMember
	u := fmt.Sprintf("%s/api/teams/%s/members", c.BaseURL, url.PathEscape(teamID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TeamClient) LeaveTeam(ctx context.Context, token, teamID string) error {
	u := fmt.Sprintf("%s/api/teams/%s/members/me", c.BaseURL, url.PathEscape(teamID))
	return doJSON(ctx, c.Client, http.MethodDelete, u, token, nil, nil, models.KindInvalidState)
}
