package models

import (
	"time"
)

// Invitation and application statuses. ACCEPTED/REJECTED and
// APPROVED/REJECTED are terminal; PENDING is the only mutable state.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRejected = "REJECTED"

	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"
)

// Invitation is a leader→user offer. At most one PENDING invitation may
// exist per (team, recipient) pair.
type Invitation struct {
	ID              string    `json:"id"`
	TeamID          string    `json:"teamId"`
	SenderID        string    `json:"senderId"`
	RecipientUserID string    `json:"recipientUserId"`
	Message         string    `json:"message"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Terminal reports whether the invitation can no longer transition.
func (i *Invitation) Terminal() bool {
	return i.Status == InvitationAccepted || i.Status == InvitationRejected
}

// Application is a user→team request, the mirror of Invitation with the
// applicant and leader roles swapped.
type Application struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"teamId"`
	ApplicantID string    `json:"applicantId"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Application) Terminal() bool {
	return a.Status == ApplicationApproved || a.Status == ApplicationRejected
}
