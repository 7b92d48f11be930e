package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
)

// LocalsUserID is the fiber.Locals key holding the authenticated user id.
const LocalsUserID = "userID"

// UserID returns the authenticated user id stored in the request context.
func UserID(c *fiber.Ctx) (uint64, bool) {
	id, ok := c.Locals(LocalsUserID).(uint64)

	return id, ok && id > 0
}

type checkFunc func(c *fiber.Ctx, userID uint64) (bool, error)

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return guard(func(c *fiber.Ctx, userID uint64) (bool, error) {
		return authService.HasPermission(c.UserContext(), userID, permission)
	}, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return guard(func(c *fiber.Ctx, userID uint64) (bool, error) {
		return authService.HasAnyPermission(c.UserContext(), userID, permissions)
	}, permissions...)
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(authService *Service, permissions ...string) fiber.Handler {
	return guard(func(c *fiber.Ctx, userID uint64) (bool, error) {
		return authService.HasAllPermissions(c.UserContext(), userID, permissions)
	}, permissions...)
}

func guard(check checkFunc, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"kind":    "unauthorized",
				"message": "authentication required",
			})
		}

		allowed, err := check(c, userID)
		if errs.KindOf(err) == errs.KindNotFound {
			// the account was deleted while the session was alive
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"kind":    "unauthorized",
				"message": "authentication required",
			})
		}

		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"kind":    errs.KindInternal,
				"message": "internal server error",
			})
		}

		if !allowed {
			log.Warn().Uint64("user_id", userID).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"kind":    errs.KindForbidden,
				"message": "you don't have permission to access this resource",
			})
		}

		return c.Next()
	}
}
