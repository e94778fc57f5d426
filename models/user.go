package models

import (
	"time"

	"gorm.io/gorm"
)

// User is reference data owned by the credential issuer. The engine caches it
// for the lifetime of a session and never mutates it.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Profile is owned by its User and mutated only through the directory service.
type Profile struct {
	UserID          string      `json:"userId"`
	FullName        string      `json:"fullName"`
	Bio             string      `json:"bio"`
	ProfileImageURL string      `json:"profileImageUrl,omitempty"`
	Education       string      `json:"education"`
	Experience      string      `json:"experience"`
	PortfolioURL    string      `json:"portfolioUrl"`
	IsPublic        bool        `json:"isPublic"`
	Skills          []UserSkill `json:"skills,omitempty"`
}

// Skill is a catalog entity, immutable from the engine's perspective.
type Skill struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UserSkill links a User to a Skill with denormalized display fields.
type UserSkill struct {
	UserID      string `json:"userId"`
	SkillID     int    `json:"skillId"`
	SkillName   string `json:"skillName"`
	Category    string `json:"category"`
	Proficiency string `json:"proficiency,omitempty"`
}

// DirectoryUser is a local snapshot of directory-service profiles, owned and
// managed solely by this service. Populated by the profile sync worker so
// teammate search does not hammer the directory collaborator per keystroke.
type DirectoryUser struct {
	ID              string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID  string  `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username        string  `gorm:"index;not null" json:"username"`
	Email           string  `json:"email,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	IsPublic        bool    `gorm:"default:true" json:"is_public"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete keeps historical invitations resolvable to a name.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is the in-memory validity snapshot the guard hands to callers.
// Never persisted.
type Session struct {
	Token     string    `json:"-"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}
