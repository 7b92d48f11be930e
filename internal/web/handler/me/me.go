// Package me serves the capability list of the authenticated user, so
// clients can hide actions the user cannot perform.
package me

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
)

const (
	// Path is the base path of the current user.
	Path = "/me"
)

// Service serves the current user's permissions.
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

	router.Get(Path+"/permissions", s.Permissions)

	return nil
}

// Permissions returns the effective permission names of the caller.
func (s *Service) Permissions(c *fiber.Ctx) error {
	actor := handler.Actor(c)

	names, err := s.admin.EffectivePermissions(c.UserContext(), actor, actor)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(fiber.Map{"permissions": names})
}
