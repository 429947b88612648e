package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/web/handler"
)

const (
	// Path is the path of the login endpoint.
	Path = handler.RootPath + "auth/login"
)

type request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *handler.XValidator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. The route is public and has to be
// registered before the authentication middleware.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = handler.NewValidator()

	app.Post(Path, s.Post)
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(request)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	session, err := s.authService.Login(s.db.WithContext(c.UserContext()), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Warn().Str("email", req.Email).Str("ip", c.IP()).Msg("Failed login")
		return fiber.NewError(fiber.StatusUnauthorized, MsgInvalidCredentials)
	}

	if err != nil {
		return handler.Internal(err, MsgLoginFailed)
	}

	log.Info().Str("email", req.Email).Msg("User logged in")

	return handler.Reply(c, fiber.StatusOK, "Login successful.", session)
}
