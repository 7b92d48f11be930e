// Package web implements the JSON transport of the administration service.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/admin"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	fiberlogger "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger/adapter/fiber"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/slug"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/login"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/logout"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/me"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/permission"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/renamelog"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/role"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/handler/user"
	authmiddleware "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	adminService *admin.Service
}

// Start starts the web service on the configured port and blocks until the
// server stopped.
func (s *Service) Start() error {
	var doneFiber = make(chan bool)

	addr := ":" + strconv.Itoa(s.cfg.Webserver.Port)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	log.Info().Str("addr", addr).Msg("web service started")

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for an interrupt and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// NamePolicy returns the name policy selected by the configuration.
func NamePolicy(cfg *config.Config) slug.Policy {
	if cfg.RBAC.FreezeNames {
		return slug.Keep
	}

	return slug.Rederive
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, hasher auth.PasswordHasher) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if hasher == nil {
		panic("hasher cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	app.Use(authmiddleware.Middleware(cfg.Webserver.Session.CookieName))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserIDLocal:   auth.LocalsUserID,
	}))

	authService := auth.NewService(db)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  authService,
		adminService: admin.New(db, authService, hasher, admin.Options{NamePolicy: NamePolicy(cfg)}),
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath)

	if err := login.Handler.Init(api, cfg, auth.NewLocalProvider(db, hasher)); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	if err := logout.Handler.Init(api, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to init logout handler")
	}

	// everything below requires a session
	api.Use(authmiddleware.RequireUser)

	if err := me.Handler.Init(api, cfg, service.adminService); err != nil {
		log.Fatal().Err(err).Msg("failed to init me handler")
	}

	// admin area
	api.Use(auth.RequirePermission(authService, auth.PermAccessAdminModule))

	for _, h := range []handler.Service{
		&permission.Handler,
		&role.Handler,
		&user.Handler,
		&renamelog.Handler,
	} {
		if err := h.Init(api, cfg, service.adminService); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// cleanPath collapses repeated slashes and dot segments before routing.
func cleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if strings.Contains(p, "//") || strings.Contains(p, "/.") {
		cleaned := path.Clean(p)
		if strings.HasSuffix(p, "/") && cleaned != "/" {
			cleaned += "/"
		}

		c.Path(cleaned)
	}

	return c.Next()
}
