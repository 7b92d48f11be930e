package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/errs"
)

// StatusOf maps a failure kind to its HTTP status.
func StatusOf(k errs.Kind) int {
	switch k {
	case errs.KindNotFound:
		return fiber.StatusNotFound
	case errs.KindDuplicateName, errs.KindDuplicateEmail:
		return fiber.StatusConflict
	case errs.KindUnknownPermission, errs.KindUnknownRole, errs.KindValidation:
		return fiber.StatusUnprocessableEntity
	case errs.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail writes err as a JSON failure body.
func Fail(c *fiber.Ctx, err error) error {
	var f *admin.Failure
	if !errors.As(err, &f) {
		f = &admin.Failure{Kind: errs.KindOf(err), Message: err.Error(), Names: errs.NamesOf(err)}

		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			f.Fields = verr.Fields
		}

		if f.Kind == errs.KindInternal {
			f.Message = "internal error"
		}
	}

	return c.Status(StatusOf(f.Kind)).JSON(f)
}

// Actor returns the authenticated user id. Routes must be guarded by a
// middleware that rejects anonymous requests.
func Actor(c *fiber.Ctx) uint64 {
	id, _ := auth.UserID(c)

	return id
}

// ParamID parses the ":id" route parameter.
func ParamID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewValidationError("id", "must be a positive integer")
	}

	return id, nil
}

// ParseBody decodes the request body into out.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errs.NewValidationError("body", "malformed request body")
	}

	return nil
}
