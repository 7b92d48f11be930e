// Package renamelog serves the log of permission and role renames.
package renamelog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
)

const (
	// Path is the rename log path.
	Path = "/renames"
)

// Service serves the rename log.
type Service struct {
	handler.Service
	admin *admin.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, adminService *admin.Service) error {
	if router == nil || cfg == nil || adminService == nil {
		log.Error().Msg(handler.ErrNilACDFatalLogMsg)
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.admin = adminService

	router.Get(Path, s.List)

	return nil
}

// List returns every recorded rename, oldest first.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := s.admin.RenameLog(c.UserContext(), handler.Actor(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(fiber.Map{"renames": entries})
}
