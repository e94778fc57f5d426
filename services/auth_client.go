// services/auth_client.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"team-match-system/models"
)

// AuthClient talks to the credential issuer. It never verifies credentials
// itself; it only relays outcomes to the session guard.
type AuthClient struct {
	BaseURL string
	Client  *http.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RenewResult is the issuer's answer to a silent token renewal.
type RenewResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn,omitempty"` // seconds, optional
}

// LoginResult carries the freshly issued token pair.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RegisterFields is the sign-up payload forwarded verbatim to the issuer.
type RegisterFields struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
}

// Renew attempts a silent session renewal with the refresh credential.
func (c *AuthClient) Renew(ctx context.Context, refreshToken string) (*RenewResult, error) {
	var out RenewResult
	url := fmt.Sprintf("%s/auth/refresh", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodPost, url, refreshToken, nil, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, models.E(models.KindUnauthenticated, "issuer returned no access token")
	}
	return &out, nil
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out LoginResult
	url := fmt.Sprintf("%s/auth/login", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodPost, url, "", in, &out, models.KindInvalidState); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the server-side session. Callers must treat a failure
// here as "still logged in" (fail-closed).
func (c *AuthClient) Logout(ctx context.Context, token string) error {
	url := fmt.Sprintf("%s/auth/logout", c.BaseURL)
	return doJSON(ctx, c.Client, http.MethodPost, url, token, nil, nil, models.KindInvalidState)
}

func (c *AuthClient) Register(ctx context.Context, fields RegisterFields) error {
	url := fmt.Sprintf("%s/auth/register", c.BaseURL)
	return doJSON(ctx, c.Client, http.MethodPost, url, "", fields, nil, models.KindValidationFailure)
}
