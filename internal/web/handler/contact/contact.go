// Package contact serves the contact endpoints.
package contact

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	controller "github.com/applytrack/applytrack/internal/db/controller/contact"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/web/export"
	"github.com/applytrack/applytrack/internal/web/handler"
)

// Path is the path of the contact resource.
const Path = handler.RootPath + "contacts"

type updateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Linkedin string `json:"linkedin" validate:"required,max=255"`
	Company  string `json:"company" validate:"required,max=255"`
}

// Service is the contact handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the contact handler.
var Handler = Service{}

// Init initializes the contact handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePermission(auth.PermList), s.List)
		router.Get(handler.ExportPath, auth.RequirePermission(auth.PermList), s.Export)
		router.Get(handler.IDPath, auth.RequirePermission(auth.PermRead), s.Get)
		router.Put(handler.IDPath, auth.RequirePermission(auth.PermUpdate), s.Update)
		router.Delete(handler.IDPath, auth.RequirePermission(auth.PermDelete), s.Delete)
	})
}

func (s *Service) conn(c *fiber.Ctx) *gorm.DB {
	return s.db.WithContext(c.UserContext())
}

func notFound(id uint) error {
	return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Contact with ID [%d] does not exist.", id))
}

// List handles GET /contacts. The name parameter matches name, company or email.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.PageFrom(c, s.cfg.Webserver.MaxPageSize), c.Query("name"))
	if err != nil {
		return handler.Internal(err, "Error retrieving all contacts.")
	}

	return c.JSON(res)
}

// Export handles GET /contacts/export.
func (s *Service) Export(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.ExportPage(c), c.Query("name"))
	if err != nil {
		return handler.Internal(err, "Error exporting contacts.")
	}

	return export.Send(c, "contacts.xlsx", export.Contacts(res.Rows))
}

// Get handles GET /contacts/:id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	contact, err := controller.GetByID(s.conn(c), id)
	if errors.Is(err, controller.ErrContactNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error retrieving contact.")
	}

	return c.JSON(contact)
}

// Update handles PUT /contacts/:id.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	req := new(updateRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	updated, err := controller.Update(s.conn(c), id, &models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Linkedin: req.Linkedin,
		Company:  req.Company,
	})
	if err != nil {
		return handler.Internal(err, "Error updating contact.")
	}

	if updated == nil {
		return notFound(id)
	}

	log.Info().Uint("contact_id", id).Msg("Contact updated")

	return handler.Reply(c, fiber.StatusOK,
		fmt.Sprintf("Contact with company [%s] has been successfully updated.", updated.Company), updated)
}

// Delete handles DELETE /contacts/:id.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	db := s.conn(c)

	existing, err := controller.GetByID(db, id)
	if errors.Is(err, controller.ErrContactNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error deleting contact.")
	}

	deleted, err := controller.Destroy(db, id, existing)
	if errors.Is(err, controller.ErrContactNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error deleting contact.")
	}

	log.Info().Uint("contact_id", id).Msg("Contact deleted")

	return handler.Reply(c, fiber.StatusOK,
		fmt.Sprintf("Contact with company [%s] has been deleted.", deleted.Company), deleted)
}
