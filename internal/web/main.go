// Package web assembles the fiber application and runs it until shutdown.
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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	accesslog "github.com/applytrack/applytrack/internal/logger/adapter/fiber"
	"github.com/applytrack/applytrack/internal/web/handler"
	"github.com/applytrack/applytrack/internal/web/handler/application"
	"github.com/applytrack/applytrack/internal/web/handler/contact"
	"github.com/applytrack/applytrack/internal/web/handler/login"
	"github.com/applytrack/applytrack/internal/web/handler/profile"
	"github.com/applytrack/applytrack/internal/web/handler/role"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
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
}

// Addr returns the listen address derived from the webserver port.
func (s *Service) Addr() string {
	return ":" + strconv.Itoa(s.cfg.Webserver.Port)
}

// Start starts the web service on the given address and blocks until the server stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")

		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the server gracefully.
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

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// cleanPath collapses repeated slashes so //roles matches /roles.
func cleanPath(c *fiber.Ctx) error {
	if p := c.Path(); strings.Contains(p, "//") {
		c.Path(path.Clean(p))
	}

	return c.Next()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserIDLocal:   auth.LocalsUserID,
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  auth.NewService(db, cfg.JWT),
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	// public routes
	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	login.Handler.Init(app, cfg, db, service.authService)

	// everything registered below requires a valid bearer token
	app.Use(auth.Authenticate(service.authService))

	profile.Handler.Init(app, cfg, db, service.authService)
	role.Handler.Init(app, cfg, db, service.authService)
	application.Handler.Init(app, cfg, db, service.authService)
	contact.Handler.Init(app, cfg, db, service.authService)

	return service
}
