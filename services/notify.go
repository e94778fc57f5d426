package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"team-match-system/models"
)

// Notification event names pushed to the delivery collaborator.
const (
	EventInvitationSent      = "invitation.sent"
	EventInvitationAccepted  = "invitation.accepted"
	EventInvitationRejected  = "invitation.rejected"
	EventApplicationReceived = "application.received"
	EventApplicationApproved = "application.approved"
	EventApplicationRejected = "application.rejected"
)

// NotifyClient schedules notifications through the delivery collaborator.
// Delivery itself (email, push) is external; a push here is best-effort and
// never fails the transition that triggered it.
type NotifyClient struct {
	BaseURL      string
	ServiceToken string
	Client       *http.Client
}

func NewNotifyClient(baseURL, serviceToken string) *NotifyClient {
	return &NotifyClient{
		BaseURL:      baseURL,
		ServiceToken: serviceToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *NotifyClient) Push(ctx context.Context, userID, event, message string) {
	if c.BaseURL == "" {
		log.Printf("📣 [NOTIFY] (no delivery service) user=%s event=%s: %s", userID, event, message)
		return
	}

	in := map[string]string{
		"userId":  userID,
		"event":   event,
		"message": message,
	}
	u := fmt.Sprintf("%s/api/notifications", c.BaseURL)
	if err := doJSON(ctx, c.Client, http.MethodPost, u, c.ServiceToken, in, nil, models.KindInvalidState); err != nil {
		log.Printf("⚠️ [NOTIFY] push failed for user=%s event=%s: %v", userID, event, err)
	}
}
