package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/validation"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"
)

// Authenticator verifies credentials.
type Authenticator interface {
	Authenticate(email, password string) (*models.User, error)
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	provider Authenticator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, provider Authenticator) error {
	if router == nil || cfg == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.provider = provider

	router.Post(Path, s.Post)

	return nil
}

// Post handles the login request and sets the session cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	var in Credentials
	if err := handler.ParseBody(c, &in); err != nil {
		return handler.Fail(c, err)
	}

	if err := validation.Struct(in); err != nil {
		return handler.Fail(c, err)
	}

	u, err := s.provider.Authenticate(in.Email, in.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("email", in.Email).Msg("login failed")
		return unauthorized(c, ErrInvalidCredentials)
	case errors.Is(err, auth.ErrUserAccountDisabled):
		log.Info().Str("email", in.Email).Msg("login of disabled account")
		return unauthorized(c, ErrAccountDisabled)
	case err != nil:
		log.Error().Err(err).Str("email", in.Email).Msg("failed to authenticate")
		return internal(c)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return internal(c)
	}

	userSession := &session.Data{
		UserID: u.ID,
		Email:  u.Email,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return internal(c)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     s.cfg.Webserver.Session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(u)
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"kind":    "unauthorized",
		"message": err.Error(),
	})
}

func internal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"kind":    "internal",
		"message": ErrInternalServerError.Error(),
	})
}
