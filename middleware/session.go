// middleware/session.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"team-match-system/services"
)

// SessionMiddleware is the synchronous authorization gate in front of every
// mutating route: it resolves the caller's credential to a session guard and
// refuses ANONYMOUS callers before any collaborator dispatch can happen.
func SessionMiddleware(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "no session credential presented",
				"redirect": "/login",
			})
		}

		sess, err := sessions.Require(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "session invalid or expired",
				"redirect": "/login",
			})
		}

		c.Locals("session", sess)
		c.Locals("session_token", token)
		return c.Next()
	}
}

// OptionalSessionMiddleware attaches a session when one is presented and
// valid, but lets anonymous reads through. Used on public listing routes
// that personalize (e.g., isLiked) when they can.
func OptionalSessionMiddleware(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := extractToken(c); token != "" {
			if sess, err := sessions.Require(token); err == nil {
				c.Locals("session", sess)
				c.Locals("session_token", token)
			}
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth != "" {
		if token := strings.TrimPrefix(auth, "Bearer "); token != auth {
			return token
		}
		return auth
	}
	return c.Cookies("access_token")
}
