package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
)

func TestRequirePermission(t *testing.T) {
	f := setupTestDB(t)

	off := false
	_, err := user.Update(f.db, f.ann.ID, user.UpdateInput{Name: "ann", Email: "ann@example.com", Active: &off, RoleNames: []string{"editor", "viewer"}})
	require.NoError(t, err)

	newApp := func(userID uint64, mw fiber.Handler) *fiber.App {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			if userID > 0 {
				c.Locals(LocalsUserID, userID)
			}

			return c.Next()
		})
		app.Get("/", mw, func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})

		return app
	}

	testCases := []struct {
		name       string
		userID     uint64
		guard      fiber.Handler
		wantStatus int
	}{
		{name: "anonymous", guard: RequirePermission(f.service, "view-post"), wantStatus: fiber.StatusUnauthorized},
		{name: "granted", userID: f.bob.ID, guard: RequirePermission(f.service, "view-post"), wantStatus: fiber.StatusOK},
		{name: "denied", userID: f.bob.ID, guard: RequirePermission(f.service, "publish-post"), wantStatus: fiber.StatusForbidden},
		{name: "deleted user", userID: 999, guard: RequirePermission(f.service, "view-post"), wantStatus: fiber.StatusUnauthorized},
		{name: "any granted", userID: f.bob.ID, guard: RequireAnyPermission(f.service, "publish-post", "view-post"), wantStatus: fiber.StatusOK},
		{name: "any denied", userID: f.cid.ID, guard: RequireAnyPermission(f.service, "publish-post", "view-post"), wantStatus: fiber.StatusForbidden},
		{name: "all granted", userID: f.bob.ID, guard: RequireAllPermissions(f.service, "edit-post", "view-post"), wantStatus: fiber.StatusOK},
		{name: "all denied", userID: f.bob.ID, guard: RequireAllPermissions(f.service, "publish-post", "view-post"), wantStatus: fiber.StatusForbidden},
		{name: "deactivated user", userID: f.ann.ID, guard: RequirePermission(f.service, "view-post"), wantStatus: fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := newApp(tc.userID, tc.guard).Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
