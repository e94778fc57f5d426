package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"team-match-system/models"
)

// AuthService exposes the credential issuer through the session guard:
// refresh bootstraps a guard, login adopts a fresh token, logout fails
// closed.
type AuthService struct {
	Auth      *AuthClient
	Directory *DirectoryClient
	Sessions  *SessionService
}

func NewAuthService(auth *AuthClient, directory *DirectoryClient, sessions *SessionService) *AuthService {
	return &AuthService{Auth: auth, Directory: directory, Sessions: sessions}
}

// Refresh is the silent-renewal entry: the client presents its refresh
// credential and gets back a live session snapshot, or ANONYMOUS.
func (s *AuthService) Refresh(c *fiber.Ctx) error {
	refreshToken := bearerToken(c)
	if refreshToken == "" {
		refreshToken = c.Cookies("refresh_token")
	}
	if refreshToken == "" {
		return respondEngineError(c, nil,
			models.E(models.KindUnauthenticated, "no refresh credential presented"))
	}

	sess, err := s.Sessions.Bootstrap(c.Context(), refreshToken)
	if err != nil {
		return respondEngineError(c, nil, err)
	}
	return c.JSON(fiber.Map{
		"accessToken": sess.Token,
		"expiresAt":   sess.ExpiresAt,
		"user":        sess.User,
	})
}

func (s *AuthService) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return respondEngineError(c, nil,
			models.E(models.KindValidationFailure, "email and password are required"))
	}

	issued, err := s.Auth.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return respondEngineError(c, nil, err)
	}

	user, err := s.Directory.GetCurrentUser(c.Context(), issued.AccessToken)
	if err != nil {
		return respondEngineError(c, nil, err)
	}

	sess := s.Sessions.Adopt(issued.AccessToken, user)
	return c.JSON(fiber.Map{
		"accessToken":  sess.Token,
		"refreshToken": issued.RefreshToken,
		"expiresAt":    sess.ExpiresAt,
		"user":         sess.User,
	})
}

func (s *AuthService) Register(c *fiber.Ctx) error {
	var body RegisterFields
	if err := c.BodyParser(&body); err != nil {
		return respondEngineError(c, nil,
			models.E(models.KindValidationFailure, "invalid registration payload"))
	}
	body.Email = strings.TrimSpace(body.Email)
	body.Username = strings.TrimSpace(body.Username)
	if body.Email == "" || body.Password == "" || body.Username == "" {
		return respondEngineError(c, nil,
			models.E(models.KindValidationFailure, "email, password, and username are required"))
	}

	if err := s.Auth.Register(c.Context(), body); err != nil {
		return respondEngineError(c, nil, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registered": body.Email})
}

// Logout ends the session. On a network failure the guard stays
// AUTHENTICATED and the client is told to retry.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	token := TokenFromCtx(c)
	if err := s.Sessions.Logout(c.Context(), token); err != nil {
		return respondEngineError(c, nil, err)
	}
	return c.JSON(fiber.Map{"loggedOut": true})
}

// Me returns the cached session user without touching any collaborator.
func (s *AuthService) Me(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	return c.JSON(fiber.Map{
		"user":      sess.User,
		"expiresAt": sess.ExpiresAt,
	})
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		// no "Bearer " prefix — accept the raw value
		return auth
	}
	return token
}
