package models

import (
	"time"
)

// TeamStatus is derived from the recruiting flag plus capacity, in the same
// shape as ContestStatus but resolved independently.
type TeamStatus string

const (
	TeamRecruiting TeamStatus = "RECRUITING"
	TeamFull       TeamStatus = "FULL"
	TeamClosed     TeamStatus = "CLOSED"
)

// Contact methods a team exposes to applicants.
const (
	ContactPlatform = "platform"
	ContactEmail    = "email"
	ContactKakao    = "kakao"
	ContactDiscord  = "discord"
)

// Team mirrors the team service's aggregate. CurrentMembers counts the leader
// plus accepted invitations plus approved applications and is authoritative
// on the team service side; the engine only revalidates against it.
type Team struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	LeaderID         string   `json:"leaderId"`
	ContestID        string   `json:"contestId"`
	MaxMembers       int      `json:"maxMembers"`
	CurrentMembers   int      `json:"currentMembers"`
	IsRecruiting     bool     `json:"isRecruiting"`
	IsPublic         bool     `json:"isPublic"`
	AllowDirectApply bool     `json:"allowDirectApply"`
	NeededRoles      []string `json:"neededRoles"`
	Skills           []string `json:"skills"`
	CategoryIDs      []string `json:"categoryIds,omitempty"`
	Location         string   `json:"location,omitempty"`
	Requirements     string   `json:"requirements,omitempty"`
	ContactMethod    string   `json:"contactMethod"`
	ContactInfo      string   `json:"contactInfo"`
	CreatedByUserID  string   `json:"createdByUserId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Computed on read.
	Status TeamStatus `json:"status,omitempty"`
}

// TeamMember is an entry in a team's member listing.
type TeamMember struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	IsLeader bool      `json:"isLeader"`
	JoinedAt time.Time `json:"joinedAt"`
}
