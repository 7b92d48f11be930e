// Package user provides the JSON handlers of the user registry.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = "/users"
)

// Service provides CRUD operations for users.
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
		r.Get("/:id", s.Get)
		r.Put("/:id", s.Update)
		r.Delete("/:id", s.Delete)
		r.Get("/:id/permissions", s.Permissions)
		r.Get("/:id/permissions/:name", s.Check)
	})

	return nil
}

// List returns one page of users.
func (s *Service) List(c *fiber.Ctx) error {
	opts := store.ListOptions{PageSize: s.cfg.RBAC.PageSize}
	if err := c.QueryParser(&opts); err != nil {
		return handler.Fail(c, err)
	}

	page, err := s.admin.ListUsers(c.UserContext(), handler.Actor(c), opts)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(page)
}

// Get returns one user with its roles.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	u, err := s.admin.GetUser(c.UserContext(), handler.Actor(c), id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(u)
}

// Create creates a user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in user.Input
	if err := handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	u, err := s.admin.CreateUser(c.UserContext(), handler.Actor(c), in)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Update replaces a user and its role set.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var in user.UpdateInput
	if err = handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	u, err := s.admin.UpdateUser(c.UserContext(), handler.Actor(c), id, in)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(u)
}

// Delete deletes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = s.admin.DeleteUser(c.UserContext(), handler.Actor(c), id); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Permissions returns the effective permission names of a user.
func (s *Service) Permissions(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	names, err := s.admin.EffectivePermissions(c.UserContext(), handler.Actor(c), id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(fiber.Map{"permissions": names})
}

// Check reports whether a user holds one permission.
func (s *Service) Check(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	name := c.Params("name")

	ok, err := s.admin.HasPermission(c.UserContext(), handler.Actor(c), id, name)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(fiber.Map{"permission": name, "granted": ok})
}
