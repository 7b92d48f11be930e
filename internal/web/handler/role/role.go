// Package role provides the JSON handlers of the role registry.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = "/roles"
)

// Service provides CRUD operations for roles.
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
		r.Get("/all", s.All)
		r.Get("/:id", s.Get)
		r.Put("/:id", s.Update)
		r.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns one page of roles.
func (s *Service) List(c *fiber.Ctx) error {
	opts := store.ListOptions{PageSize: s.cfg.RBAC.PageSize}
	if err := c.QueryParser(&opts); err != nil {
		return handler.Fail(c, err)
	}

	page, err := s.admin.ListRoles(c.UserContext(), handler.Actor(c), opts)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(page)
}

// All returns every role, for role pickers.
func (s *Service) All(c *fiber.Ctx) error {
	roles, err := s.admin.AllRoles(c.UserContext(), handler.Actor(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(roles)
}

// Get returns one role with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	r, err := s.admin.GetRole(c.UserContext(), handler.Actor(c), uint(id))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(r)
}

// Create creates a role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in role.Input
	if err := handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	r, err := s.admin.CreateRole(c.UserContext(), handler.Actor(c), in)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update replaces a role and its permission set.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var in role.Input
	if err = handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	r, err := s.admin.UpdateRole(c.UserContext(), handler.Actor(c), uint(id), in)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(r)
}

// Delete deletes a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = s.admin.DeleteRole(c.UserContext(), handler.Actor(c), uint(id)); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
