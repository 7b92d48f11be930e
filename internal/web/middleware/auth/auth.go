// Package auth loads the session principal into the request context.
//
// The middleware never rejects a request by itself. Routes that need an
// authenticated principal are guarded by RequireUser or by the permission
// middleware of package internal/auth, both of which read the user id that
// Middleware stores under auth.LocalsUserID.
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/session"
)

// Middleware reads the session named by cookieName and, when it is valid,
// stores the user id in fiber.Locals.
func Middleware(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID == "" {
			return c.Next()
		}

		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				log.Error().Err(err).Msg("failed to read session")
			}

			return c.Next()
		}

		if sessData.UserID > 0 {
			c.Locals(auth.LocalsUserID, sessData.UserID)
		}

		return c.Next()
	}
}

// RequireUser rejects requests without an authenticated principal.
func RequireUser(c *fiber.Ctx) error {
	if _, ok := auth.UserID(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"kind":    "unauthorized",
			"message": "authentication required",
		})
	}

	return c.Next()
}
