package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
)

func TestFail(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   errs.Kind
		wantNames  []string
	}{
		{name: "not found", err: &errs.NotFoundError{Entity: "role", ID: 1}, wantStatus: fiber.StatusNotFound, wantKind: errs.KindNotFound},
		{name: "duplicate name", err: &errs.DuplicateNameError{Entity: "role", Name: "x"}, wantStatus: fiber.StatusConflict, wantKind: errs.KindDuplicateName},
		{name: "duplicate email", err: &errs.DuplicateEmailError{Email: "a@x.com"}, wantStatus: fiber.StatusConflict, wantKind: errs.KindDuplicateEmail},
		{name: "unknown permission", err: fmt.Errorf("sync: %w", &errs.UnknownPermissionError{Names: []string{"ghost"}}), wantStatus: fiber.StatusUnprocessableEntity, wantKind: errs.KindUnknownPermission, wantNames: []string{"ghost"}},
		{name: "unknown role", err: &errs.UnknownRoleError{Names: []string{"a", "b"}}, wantStatus: fiber.StatusUnprocessableEntity, wantKind: errs.KindUnknownRole, wantNames: []string{"a", "b"}},
		{name: "validation", err: errs.NewValidationError("label", "required"), wantStatus: fiber.StatusUnprocessableEntity, wantKind: errs.KindValidation},
		{name: "forbidden", err: &admin.Failure{Kind: errs.KindForbidden, Message: "no"}, wantStatus: fiber.StatusForbidden, wantKind: errs.KindForbidden},
		{name: "internal", err: errors.New("disk on fire"), wantStatus: fiber.StatusInternalServerError, wantKind: errs.KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return Fail(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var got admin.Failure
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tc.wantKind, got.Kind)
			assert.Equal(t, tc.wantNames, got.Names)
			assert.NotContains(t, got.Message, "disk on fire")
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c)
		if err != nil {
			return Fail(c, err)
		}

		return c.JSON(id)
	})

	for path, want := range map[string]int{"/12": fiber.StatusOK, "/0": fiber.StatusUnprocessableEntity, "/abc": fiber.StatusUnprocessableEntity} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
