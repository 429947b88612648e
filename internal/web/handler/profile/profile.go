// Package profile serves the profile of the logged in user.
package profile

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/web/handler"
)

// Path is the path of the profile resource.
const Path = handler.RootPath + "profile"

type updateRequest struct {
	Name      string `json:"name" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	BirthDate string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Telephone string `json:"telephone" validate:"max=50"`
	Biography string `json:"biography"`
}

// Service is the profile handler service.
type Service struct {
	handler.Service
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler. Every authenticated user may read and edit its own profile.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.validator = handler.NewValidator()

	app.Get(Path, s.Get)
	app.Put(Path, s.Put)
}

// Get handles GET /profile.
func (s *Service) Get(c *fiber.Ctx) error {
	principal, err := auth.CurrentUser(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	profile, err := user.Profile(s.db.WithContext(c.UserContext()), principal.ID)
	if errors.Is(err, user.ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User does not exist.")
	}

	if err != nil {
		return handler.Internal(err, "Error retrieving the profile.")
	}

	return c.JSON(profile)
}

// Put handles PUT /profile.
func (s *Service) Put(c *fiber.Ctx) error {
	principal, err := auth.CurrentUser(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	req := new(updateRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	in := user.ProfileUpdate{
		Name:      req.Name,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Telephone: req.Telephone,
		Biography: req.Biography,
	}

	if req.BirthDate != "" {
		// format checked by the validator
		birth, _ := time.Parse(time.DateOnly, req.BirthDate)
		in.BirthDate = &birth
	}

	profile, err := user.EditProfile(s.db.WithContext(c.UserContext()), principal.ID, in)

	switch {
	case errors.Is(err, user.ErrEmailInUse):
		return fiber.NewError(fiber.StatusConflict, "Email is already in use.")
	case errors.Is(err, user.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User does not exist.")
	case err != nil:
		return handler.Internal(err, "Error updating the profile.")
	}

	log.Info().Uint("user_id", principal.ID).Msg("Profile updated")

	return handler.Reply(c, fiber.StatusOK, "Profile updated successfully.", profile)
}
