package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"team-match-system/models"
)

// DirectoryClient talks to the user/profile/skill catalog behind the gateway.
type DirectoryClient struct {
	BaseURL string
	Client  *http.Client
}

func NewDirectoryClient(baseURL string) *DirectoryClient {
	return &DirectoryClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *DirectoryClient) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	u := fmt.Sprintf("%s/api/users/me", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *DirectoryClient) GetUser(ctx context.Context, token, userID string) (*models.User, error) {
	var out models.User
	u := fmt.Sprintf("%s/api/users/%s", c.BaseURL, url.PathEscape(userID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *DirectoryClient) GetProfile(ctx context.Context, token, userID string) (*models.Profile, error) {
	var out models.Profile
	u := fmt.Sprintf("%s/api/profiles/%s", c.BaseURL, url.PathEscape(userID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *DirectoryClient) PutProfile(ctx context.Context, token string, profile *models.Profile) error {
	u := fmt.Sprintf("%s/api/profiles/%s", c.BaseURL, url.PathEscape(profile.UserID))
	return doJSON(ctx, c.Client, http.MethodPut, u, token, profile, nil, models.KindInvalidState)
}

func (c *DirectoryClient) ListSkills(ctx context.Context, token string) ([]models.Skill, error) {
	var out []models.Skill
	u := fmt.Sprintf("%s/api/skills", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) GetUserSkills(ctx context.Context, token, userID string) ([]models.UserSkill, error) {
	var out []models.UserSkill
	u := fmt.Sprintf("%s/api/users/%s/skills", c.BaseURL, url.PathEscape(userID))
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) PutUserSkills(ctx context.Context, token, userID string, skills []models.UserSkill) error {
	u := fmt.Sprintf("%s/api/users/%s/skills", c.BaseURL, url.PathEscape(userID))
	return doJSON(ctx, c.Client, http.MethodPut, u, token, skills, nil, models.KindInvalidState)
}

// ListUsers pages through public profiles; the sync worker uses it to refresh
// the local directory mirror.
func (c *DirectoryClient) ListUsers(ctx context.Context, token string, since time.Time) ([]models.Profile, error) {
	var out []models.Profile
	q := url.Values{}
	if !since.IsZero() {
		q.Set("updatedSince", since.UTC().Format(time.RFC3339))
	}
	u := fmt.Sprintf("%s/api/profiles?%s", c.BaseURL, q.Encode())
	if err := doJSON(ctx, c.Client, http.MethodGet, u, token, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return out, nil
}
