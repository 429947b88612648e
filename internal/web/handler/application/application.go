// Package application serves the job application endpoints.
package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	controller "github.com/applytrack/applytrack/internal/db/controller/application"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/web/export"
	"github.com/applytrack/applytrack/internal/web/handler"
)

const (
	// Path is the path of the application resource.
	Path = handler.RootPath + "applications"

	msgInUse = "There is a application with the same information."
)

// dateLayouts are tried in order when parsing appliedDate.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

type (
	createRequest struct {
		Position        string `json:"position" validate:"required,max=255"`
		Company         string `json:"company" validate:"required,max=255"`
		CompanyWebsite  string `json:"companyWebsite" validate:"max=255"`
		LinkApplication string `json:"linkApplication"`
		Status          string `json:"status" validate:"required,appstatus"`
		Notes           string `json:"notes"`
		AppliedDate     string `json:"appliedDate" validate:"required"`
		Name            string `json:"name" validate:"required,max=255"`
		Email           string `json:"email" validate:"required,email"`
		Linkedin        string `json:"linkedin" validate:"max=255"`
	}

	contactRequest struct {
		ID       uint   `json:"id" validate:"required"`
		Name     string `json:"name" validate:"max=255"`
		Email    string `json:"email" validate:"omitempty,email"`
		Linkedin string `json:"linkedin" validate:"max=255"`
		Company  string `json:"company" validate:"max=255"`
	}

	updateRequest struct {
		Position        string          `json:"position" validate:"required,max=255"`
		Company         string          `json:"company" validate:"required,max=255"`
		CompanyWebsite  string          `json:"companyWebsite" validate:"max=255"`
		LinkApplication string          `json:"linkApplication"`
		Status          string          `json:"status" validate:"required,appstatus"`
		Notes           string          `json:"notes"`
		AppliedDate     string          `json:"appliedDate" validate:"required"`
		Contact         *contactRequest `json:"contact" validate:"required"`
	}
)

// Service is the application handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the application handler.
var Handler = Service{}

// Init initializes the application handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RootPath, auth.RequirePermission(auth.PermCreate), s.Create)
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
	return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Application with ID [%d] does not exist.", id))
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &handler.ValidationError{
		Message: "Validation failed.",
		Errors: []handler.ErrorResponse{{
			Field:   "appliedDate",
			Tag:     "date",
			Message: `"appliedDate" must be a date (YYYY-MM-DD or RFC 3339)`,
		}},
	}
}

// Create handles POST /applications.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	applied, err := parseDate(req.AppliedDate)
	if err != nil {
		return err
	}

	app, err := controller.Create(s.conn(c), &models.Application{
		Position:        req.Position,
		Company:         req.Company,
		CompanyWebsite:  req.CompanyWebsite,
		LinkApplication: req.LinkApplication,
		Status:          models.ApplicationStatus(req.Status),
		Notes:           req.Notes,
		AppliedDate:     applied,
		Contact: &models.Contact{
			Name:     req.Name,
			Email:    req.Email,
			Linkedin: req.Linkedin,
			Company:  req.Company,
		},
	})
	if errors.Is(err, controller.ErrApplicationInUse) {
		log.Warn().Str("company", req.Company).Msg("Application already exists")
		return fiber.NewError(fiber.StatusConflict, msgInUse)
	}

	if err != nil {
		return handler.Internal(err, "Error creating the application.")
	}

	log.Info().Uint("application_id", app.ID).Msg("Application created")

	return handler.Reply(c, fiber.StatusCreated,
		fmt.Sprintf("Application with company [%s] created successfully.", app.Company), app)
}

// List handles GET /applications.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.PageFrom(c, s.cfg.Webserver.MaxPageSize), c.Query("company"))
	if err != nil {
		return handler.Internal(err, "Error retrieving all applications.")
	}

	return c.JSON(res)
}

// Export handles GET /applications/export.
func (s *Service) Export(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.ExportPage(c), c.Query("company"))
	if err != nil {
		return handler.Internal(err, "Error exporting applications.")
	}

	return export.Send(c, "applications.xlsx", export.Applications(res.Rows))
}

// Get handles GET /applications/:id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	app, err := controller.Find(s.conn(c), id)
	if errors.Is(err, controller.ErrApplicationNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error retrieving application.")
	}

	return c.JSON(app)
}

// Update handles PUT /applications/:id.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	req := new(updateRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	applied, err := parseDate(req.AppliedDate)
	if err != nil {
		return err
	}

	db := s.conn(c)

	if _, err := controller.Find(db, id); err != nil {
		if errors.Is(err, controller.ErrApplicationNotFound) {
			return notFound(id)
		}

		return handler.Internal(err, "Error updating application.")
	}

	app, err := controller.Edit(db, id, &models.Application{
		Position:        req.Position,
		Company:         req.Company,
		CompanyWebsite:  req.CompanyWebsite,
		LinkApplication: req.LinkApplication,
		Status:          models.ApplicationStatus(req.Status),
		Notes:           req.Notes,
		AppliedDate:     applied,
		Contact: &models.Contact{
			ID:       req.Contact.ID,
			Name:     req.Contact.Name,
			Email:    req.Contact.Email,
			Linkedin: req.Contact.Linkedin,
			Company:  req.Contact.Company,
		},
	})
	if err != nil {
		return handler.Internal(err, "Error updating application.")
	}

	if app == nil {
		log.Warn().Uint("application_id", id).Uint("contact_id", req.Contact.ID).Msg("Application update touched no contact")
		return notFound(id)
	}

	log.Info().Uint("application_id", id).Msg("Application updated")

	return handler.Reply(c, fiber.StatusOK,
		fmt.Sprintf("Application with company [%s] has been successfully updated.", app.Company), app)
}

// Delete handles DELETE /applications/:id.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	db := s.conn(c)

	existing, err := controller.Find(db, id)
	if errors.Is(err, controller.ErrApplicationNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error deleting application.")
	}

	deleted, err := controller.Destroy(db, id, existing)
	if errors.Is(err, controller.ErrApplicationNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error deleting application.")
	}

	log.Info().Uint("application_id", id).Msg("Application deleted")

	return handler.Reply(c, fiber.StatusOK,
		fmt.Sprintf("Application with company [%s] has been deleted.", deleted.Company), deleted)
}
