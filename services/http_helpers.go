package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"team-match-system/models"
)

// SessionFromCtx returns the session snapshot the middleware attached.
func SessionFromCtx(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals("session").(*models.Session)
	return sess
}

// TokenFromCtx returns the raw credential the middleware attached.
func TokenFromCtx(c *fiber.Ctx) string {
	token, _ := c.Locals("session_token").(string)
	return token
}

// respondEngineError maps an engine error onto the HTTP surface. An
// Unauthenticated outcome also drops the guard for this credential and tells
// the client where to re-authenticate.
func respondEngineError(c *fiber.Ctx, sessions *SessionService, err error) error {
	kind := models.KindOf(err)
	msg := err.Error()
	var ee *models.EngineError
	if errors.As(err, &ee) {
		msg = ee.Message
	}

	if kind == models.KindUnauthenticated {
		if sessions != nil {
			if token := TokenFromCtx(c); token != "" {
				sessions.Invalidate(token)
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    msg,
			"kind":     kind,
			"redirect": "/login",
		})
	}

	return c.Status(models.HTTPStatus(kind)).JSON(fiber.Map{
		"error": msg,
		"kind":  kind,
	})
}
