package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"team-match-system/models"
)

// Collaborator interfaces as consumed by the engine's state machines. The
// concrete HTTP clients below satisfy them; tests swap in fakes.

type credentialAPI interface {
	Renew(ctx context.Context, refreshToken string) (*RenewResult, error)
	Logout(ctx context.Context, token string) error
}

type currentUserAPI interface {
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}

type teamAPI interface {
	GetTeam(ctx context.Context, token, teamID string) (*models.Team, error)
	UpdateTeam(ctx context.Context, token, teamID string, update TeamUpdate) (*models.Team, error)
	ListTeamMembers(ctx context.Context, token, teamID string) ([]models.TeamMember, error)
}

type engagementAPI interface {
	SendInvitation(ctx context.Context, token, teamID, recipientUserID, message string) (*models.Invitation, error)
	GetInvitation(ctx context.Context, token, invitationID string) (*models.Invitation, error)
	RespondInvitation(ctx context.Context, token, invitationID, decision string) (*models.Invitation, error)
	ListTeamInvitations(ctx context.Context, token, teamID string) ([]models.Invitation, error)
	ListInvitations(ctx context.Context, token, userID string) ([]models.Invitation, error)
	ApplyToTeam(ctx context.Context, token, teamID, message string) (*models.Application, error)
	GetApplication(ctx context.Context, token, applicationID string) (*models.Application, error)
	RespondApplication(ctx context.Context, token, applicationID, decision string) (*models.Application, error)
	ListTeamApplications(ctx context.Context, token, teamID string) ([]models.Application, error)
	ListApplications(ctx context.Context, token, userID string) ([]models.Application, error)
}

type notifier interface {
	Push(ctx context.Context, userID, event, message string)
}

// doJSON performs one collaborator call with the session credential attached,
// decoding a 2xx body into out (when non-nil). Non-2xx outcomes map onto the
// engine taxonomy: 401/403 uniformly mean the session is gone, 404 means the
// caller acted on stale data, 409 carries the per-call conflict meaning.
func doJSON(ctx context.Context, hc *http.Client, method, url, token string, in, out interface{}, conflictKind models.ErrorKind) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return models.WrapE(models.KindValidationFailure, err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return models.WrapE(models.KindNetworkFailure, err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		// Timeouts count as failures, never as pending-forever.
		return models.WrapE(models.KindNetworkFailure, err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return models.WrapE(models.KindNetworkFailure, err, "decode response from %s", url)
			}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.E(models.KindUnauthenticated, "collaborator rejected session (%d): %s", resp.StatusCode, summarize(data))
	case resp.StatusCode == http.StatusNotFound:
		return models.E(models.KindInvalidState, "resource not found: %s", summarize(data))
	case resp.StatusCode == http.StatusConflict:
		return models.E(conflictKind, "%s", summarize(data))
	case resp.StatusCode == http.StatusBadRequest:
		return models.E(models.KindValidationFailure, "%s", summarize(data))
	default:
		return models.E(models.KindNetworkFailure, "collaborator returned %d: %s", resp.StatusCode, summarize(data))
	}
}

func decodeJSONBody(resp *http.Response, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.WrapE(models.KindNetworkFailure, err, "decode response")
	}
	return nil
}

func summarize(body []byte) string {
	var wrapped struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Error != "" {
			return wrapped.Error
		}
		if wrapped.Message != "" {
			return wrapped.Message
		}
	}
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	if s == "" {
		s = "(empty body)"
	}
	return s
}
