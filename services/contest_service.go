package services

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"team-match-system/models"
	"team-match-system/utils"
)

// ContestService is the HTTP surface over the contest/category collaborator
// plus the local favorites store. Derived status and daysLeft are computed
// here on every read; they are never written back.
type ContestService struct {
	Contests  *ContestClient
	Favorites *FavoriteService
	Sessions  *SessionService
	Window    time.Duration // CLOSING_SOON threshold
	clock     func() time.Time
}

func NewContestService(contests *ContestClient, favorites *FavoriteService, sessions *SessionService, window time.Duration) *ContestService {
	if window <= 0 {
		window = DefaultClosingSoonWindow
	}
	return &ContestService{
		Contests:  contests,
		Favorites: favorites,
		Sessions:  sessions,
		Window:    window,
		clock:     time.Now,
	}
}

func (s *ContestService) ListContests(c *fiber.Ctx) error {
	filters := models.ContestFilters{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("categoryId"),
		Status:     c.Query("status"),
		RegionSi:   c.Query("regionSi"),
		Tag:        c.Query("tag"),
	}
	page, _ := strconv.Atoi(c.Query("page", "0"))
	sortBy := c.Query("sort", "registrationDeadline,asc")

	result, err := s.Contests.ListContests(c.Context(), TokenFromCtx(c), filters, page, sortBy)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}

	now := s.clock()
	for i := range result.Items {
		AnnotateContest(&result.Items[i], now, s.Window)
	}
	return c.JSON(result)
}

func (s *ContestService) GetContest(c *fiber.Ctx) error {
	contest, err := s.Contests.GetContest(c.Context(), TokenFromCtx(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	AnnotateContest(contest, s.clock(), s.Window)

	liked := false
	if sess := SessionFromCtx(c); sess != nil {
		liked = s.Favorites.IsFavorite(c.Context(), sess.User.ID, contest.ID)
	}
	return c.JSON(fiber.Map{"contest": contest, "isLiked": liked})
}

func (s *ContestService) ListCategories(c *fiber.Ctx) error {
	categories, err := s.Contests.ListCategories(c.Context(), TokenFromCtx(c))
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	return c.JSON(categories)
}

// CreateContest accepts a multipart form (fields + optional image) so the
// organizer's poster lands on R2 before the contest record is created.
func (s *ContestService) CreateContest(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	title := strings.TrimSpace(c.FormValue("title"))
	organizer := strings.TrimSpace(c.FormValue("organizer"))
	deadlineStr := c.FormValue("registrationDeadline")
	startStr := c.FormValue("startDate")
	endStr := c.FormValue("endDate")

	if title == "" || organizer == "" || deadlineStr == "" {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "title, organizer, and registrationDeadline are required"))
	}

	deadline, err := time.Parse(time.RFC3339, deadlineStr)
	if err != nil {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "invalid registrationDeadline (use RFC3339)"))
	}
	var startDate, endDate time.Time
	if startStr != "" {
		if startDate, err = time.Parse(time.RFC3339, startStr); err != nil {
			return respondEngineError(c, s.Sessions,
				models.E(models.KindValidationFailure, "invalid startDate (use RFC3339)"))
		}
	}
	if endStr != "" {
		if endDate, err = time.Parse(time.RFC3339, endStr); err != nil {
			return respondEngineError(c, s.Sessions,
				models.E(models.KindValidationFailure, "invalid endDate (use RFC3339)"))
		}
	}
	if !endDate.IsZero() && !startDate.IsZero() && endDate.Before(startDate) {
		return respondEngineError(c, s.Sessions,
			models.E(models.KindValidationFailure, "endDate is before startDate"))
	}

	maxParticipants := 0
	if v := c.FormValue("maxParticipants"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxParticipants = n
		} else {
			return respondEngineError(c, s.Sessions,
				models.E(models.KindValidationFailure, "maxParticipants must be a non-negative integer"))
		}
	}

	var imageURL string
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "contests/" + slug.Make(title) + "-" + uuid.NewString() + ext
		url, err := utils.UploadImage(image, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload contest image"})
		}
		imageURL = url
	}

	contest := &models.Contest{
		Title:                title,
		Description:          c.FormValue("description"),
		Organizer:            organizer,
		OrganizerEmail:       c.FormValue("organizerEmail"),
		OrganizerPhone:       c.FormValue("organizerPhone"),
		StartDate:            startDate,
		EndDate:              endDate,
		RegistrationDeadline: deadline,
		PrizeDescription:     c.FormValue("prizeDescription"),
		Requirements:         c.FormValue("requirements"),
		SubmissionFormat:     c.FormValue("submissionFormat"),
		WebsiteURL:           c.FormValue("websiteUrl"),
		ImageURL:             imageURL,
		MaxParticipants:      maxParticipants,
		Eligibility:          splitCSV(c.FormValue("eligibility")),
		Tags:                 splitCSV(c.FormValue("tags")),
		RegionSi:             c.FormValue("regionSi"),
		RegionGu:             c.FormValue("regionGu"),
		CreatedByUserID:      sess.User.ID,
		IsActive:             true,
	}

	created, err := s.Contests.CreateContest(c.Context(), sess.Token, contest)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}
	AnnotateContest(created, s.clock(), s.Window)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ToggleFavorite flips the contest in the caller's favorite set. Display
// fields are captured now so the list renders offline.
func (s *ContestService) ToggleFavorite(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	contestID := c.Params("id")

	contest, err := s.Contests.GetContest(c.Context(), sess.Token, contestID)
	if err != nil {
		return respondEngineError(c, s.Sessions, err)
	}

	region := contest.RegionSi
	if contest.RegionGu != "" {
		region += " " + contest.RegionGu
	}
	category := ""
	if len(contest.Categories) > 0 {
		category = contest.Categories[0].Name
	}

	liked, err := s.Favorites.Toggle(c.Context(), sess.User.ID, models.FavoriteEntry{
		ContestID: contest.ID,
		Title:     contest.Title,
		Organizer: contest.Organizer,
		Category:  category,
		Region:    strings.TrimSpace(region),
		Deadline:  contest.RegistrationDeadline,
	})
	if err != nil {
		// Fails soft: report the miss but include the state we rolled back to.
		return c.Status(models.HTTPStatus(models.KindOf(err))).JSON(fiber.Map{
			"error":   "favorite not saved",
			"isLiked": liked,
		})
	}
	return c.JSON(fiber.Map{"isLiked": liked})
}

func (s *ContestService) ListFavorites(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	return c.JSON(s.Favorites.List(c.Context(), sess.User.ID))
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
