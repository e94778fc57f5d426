package models

import (
	"time"
)

// FavoriteEntry is a per-user favorited contest with display fields captured
// at favorite time, so the list stays renderable even when the contest
// service is unreachable.
type FavoriteEntry struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_fav_user_contest;not null" json:"userId"`
	ContestID string    `gorm:"uniqueIndex:idx_fav_user_contest;not null" json:"contestId"`
	Title     string    `json:"title"`
	Organizer string    `json:"organizer"`
	Category  string    `json:"category,omitempty"`
	Region    string    `json:"region,omitempty"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
