package models

import (
	"time"
)

// ContestStatus is derived from time and never stored as ground truth; it is
// recomputed on every read.
type ContestStatus string

const (
	ContestOpen        ContestStatus = "OPEN"
	ContestClosingSoon ContestStatus = "CLOSING_SOON"
	ContestClosed      ContestStatus = "CLOSED"
)

// Category from the contest/category collaborator.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Contest mirrors the contest service's aggregate. The engine treats it as
// fetched-fresh-per-view reference data; only Status and DaysLeft are
// computed locally.
type Contest struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Organizer            string     `json:"organizer"`
	OrganizerEmail       string     `json:"organizerEmail,omitempty"`
	OrganizerPhone       string     `json:"organizerPhone,omitempty"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	RegistrationDeadline time.Time  `json:"registrationDeadline"`
	PrizeDescription     string     `json:"prizeDescription,omitempty"`
	Requirements         string     `json:"requirements,omitempty"`
	SubmissionFormat     string     `json:"submissionFormat,omitempty"`
	WebsiteURL           string     `json:"websiteUrl,omitempty"`
	ImageURL             string     `json:"imageUrl,omitempty"`
	MaxParticipants      int        `json:"maxParticipants"`
	Eligibility          []string   `json:"eligibility"`
	Tags                 []string   `json:"tags"`
	Categories           []Category `json:"categories"`
	RegionSi             string     `json:"regionSi,omitempty"`
	RegionGu             string     `json:"regionGu,omitempty"`
	CreatedByUserID      string     `json:"createdByUserId"`
	IsActive             bool       `json:"isActive"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`

	// Computed on read, never round-tripped to the contest service.
	Status   ContestStatus `json:"status,omitempty"`
	DaysLeft int           `json:"daysLeft"`
}

// ContestFilters is the filter set forwarded to the contest service listing.
type ContestFilters struct {
	Keyword    string `json:"keyword,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Status     string `json:"status,omitempty"`
	RegionSi   string `json:"regionSi,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// ContestPage is the contest service's paged listing shape.
type ContestPage struct {
	Items         []Contest `json:"items"`
	Page          int       `json:"page"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
}
