package auth

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/session"
)

const cookieName = "test_session"

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware(cookieName))
	app.Get("/open", func(c *fiber.Ctx) error {
		id, _ := auth.UserID(c)

		return c.SendString(strconv.FormatUint(id, 10))
	})
	app.Get("/closed", RequireUser, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestMiddleware(t *testing.T) {
	session.Init(nil)

	valid, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{UserID: 42, Email: "a@x.com"}).Write(valid, time.Minute))

	testCases := []struct {
		name       string
		cookie     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "no cookie open", path: "/open", wantStatus: fiber.StatusOK, wantBody: "0"},
		{name: "valid cookie open", cookie: valid, path: "/open", wantStatus: fiber.StatusOK, wantBody: "42"},
		{name: "unknown cookie open", cookie: "stale", path: "/open", wantStatus: fiber.StatusOK, wantBody: "0"},
		{name: "no cookie closed", path: "/closed", wantStatus: fiber.StatusUnauthorized},
		{name: "unknown cookie closed", cookie: "stale", path: "/closed", wantStatus: fiber.StatusUnauthorized},
		{name: "valid cookie closed", cookie: valid, path: "/closed", wantStatus: fiber.StatusOK, wantBody: "ok"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.Header.Set("Cookie", cookieName+"="+tc.cookie)
			}

			resp, err := newApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.wantBody, string(body))
			}
		})
	}
}
