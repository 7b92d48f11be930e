// Package permission provides the JSON handlers of the permission registry.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
)

const (
	// Path is the base path for permission management.
	Path = "/permissions"
)

// Service provides CRUD operations for permissions.
type Service struct {
	handler.Service
	cfg   *config.Config
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

	s.cfg = cfg
	s.admin = adminService

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.List)
		r.Post(handler.RouterRootPath, s.Create)
		r.Get("/modules", s.Modules)
		r.Get("/:id", s.Get)
		r.Put("/:id", s.Update)
		r.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns one page of permissions.
func (s *Service) List(c *fiber.Ctx) error {
	opts := store.ListOptions{PageSize: s.cfg.RBAC.PageSize}
	if err := c.QueryParser(&opts); err != nil {
		return handler.Fail(c, err)
	}

	page, err := s.admin.ListPermissions(c.UserContext(), handler.Actor(c), opts)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(page)
}

// Modules returns every permission grouped by module.
func (s *Service) Modules(c *fiber.Ctx) error {
	grouped, err := s.admin.PermissionsByModule(c.UserContext(), handler.Actor(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(grouped)
}

// Get returns one permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	p, err := s.admin.GetPermission(c.UserContext(), handler.Actor(c), uint(id))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(p)
}

// Create creates a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	var in permission.Input
	if err := handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	p, err := s.admin.CreatePermission(c.UserContext(), handler.Actor(c), in)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update changes the fields present in the body.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var f permission.Fields
	if err = handler.ParseBody(c, &f); err != nil {
		return handler.Fail(c, err)
	}

	p, err := s.admin.UpdatePermission(c.UserContext(), handler.Actor(c), uint(id), f)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(p)
}

// Delete deletes a permission.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = s.admin.DeletePermission(c.UserContext(), handler.Actor(c), uint(id)); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
