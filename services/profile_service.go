package services

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"team-match-system/models"
)

// ProfileService is the HTTP surface over the directory collaborator plus
// the local profile mirror used for teammate search.
type ProfileService struct {
	DB        *gorm.DB
	Directory *DirectoryClient
	Sessions  *SessionService
}

func NewProfileService(db *gorm.DB, directory *DirectoryClient, sessions *SessionService) *ProfileService {
	return &ProfileService{DB: db, Directory: directory, Sessions: sessions}
}

func (s *ProfileService) GetMyProfile(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	profile, err := s.Directory.GetProfile(c.Context(), sess.Token, sess.User.ID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	skills, err := s.Directory.GetUserSkills(c.Context(), sess.Token, sess.User.ID)
	if err == nil {
		profile.Skills = skills
	}
	return c.JSON(profile)
}

// SaveMyProfile writes the caller's own profile; the directory service
// enforces ownership server-side, this check just keeps the error local.
func (s *ProfileService) SaveMyProfile(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid profile payload"))
	}
	if profile.UserID != "" && profile.UserID != sess.User.ID {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindUnauthorized, "a profile is mutated only by its owner"))
	}
	profile.UserID = sess.User.ID

	if err := s.Directory.PutProfile(c.Context(), sess.Token, &profile); err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(fiber.Map{"saved": true})
}

func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	profile, err := s.Directory.GetProfile(c.Context(), TokenFromCtx(c), c.Params("user_id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	if !profile.IsPublic {
		sess := SessionFromCtx(c)
		if sess == nil || sess.User.ID != profile.UserID {
			return respondEngineError(c, s.Sessions,
				models.E(models.KindUnauthorized, "this profile is private"))
		}
	}
	return c.JSON(profile)
}

func (s *ProfileService) ListSkills(c *fiber.Ctx) error {
	skills, err := s.Directory.ListSkills(c.Context(), TokenFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(skills)
}

func (s *ProfileService) GetMySkills(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	skills, err := s.Directory.GetUserSkills(c.Context(), sess.Token, sess.User.ID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(skills)
}

func (s *ProfileService) SaveMySkills(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	var skills []models.UserSkill
	if err := c.BodyParser(&skills); err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid skills payload"))
	}
	for i := range skills {
		skills[i].UserID = sess.User.ID
	}

	if err := s.Directory.PutUserSkills(c.Context(), sess.Token, sess.User.ID, skills); err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(fiber.Map{"saved": len(skills)})
}

// SearchUsers searches the local directory mirror so invite typeahead does
// not fan out to the directory collaborator per keystroke.
func (s *ProfileService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.DirectoryUser
	db := s.DB.Model(&models.DirectoryUser{}).Where("is_public = ?", true).Limit(limit)

	if query != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(NormalizeKeyword(query))) + "%"
		db = db.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(full_name, '')) LIKE ?",
			term, term, term,
		)
	}

	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed"})
	}

	type UserSummary struct {
		ExternalUserID  string  `json:"external_user_id"`
		Username        string  `json:"username"`
		FullName        *string `json:"full_name,omitempty"`
		ProfileImageURL *string `json:"profile_image_url,omitempty"`
	}
	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ExternalUserID:  u.ExternalUserID,
			Username:        u.Username,
			FullName:        u.FullName,
			ProfileImageURL: u.ProfileImageURL,
		}
	}
	return c.JSON(res)
}
