// Package role serves the role and role permission endpoints.
package role

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	controller "github.com/applytrack/applytrack/internal/db/controller/role"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/web/export"
	"github.com/applytrack/applytrack/internal/web/handler"
)

const (
	// Path is the path of the role resource.
	Path = handler.RootPath + "roles"

	// PermissionsPath is the route suffix of a role's permission set.
	PermissionsPath = handler.IDPath + "/permissions"

	// MsgRoleHasPermissions is answered when deleting a role that still holds permissions.
	MsgRoleHasPermissions = "Role cannot be deleted because it has associated permissions."

	msgNameInUse = "There is a role with the same name."
)

type (
	createRequest struct {
		Name          string `json:"name" validate:"required,max=100"`
		Description   string `json:"description" validate:"max=255"`
		PermissionIDs []int64 `json:"permissionIds"`
	}

	updateRequest struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"max=255"`
	}

	permissionsRequest struct {
		PermissionIDs []int64 `json:"permissionIds" validate:"required"`
	}
)

// Service is the role handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
}

// Handler is the role handler.
var Handler = Service{}

// Init initializes the role handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = handler.NewValidator()

	// register routes with permission checks, export before :id
	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RootPath, auth.RequirePermission(auth.PermCreate), s.Create)
		router.Get(handler.RootPath, auth.RequirePermission(auth.PermList), s.List)
		router.Get(handler.ExportPath, auth.RequirePermission(auth.PermList), s.Export)
		router.Get(handler.IDPath, auth.RequirePermission(auth.PermRead), s.Get)
		router.Put(handler.IDPath, auth.RequirePermission(auth.PermUpdate), s.Update)
		router.Delete(handler.IDPath, auth.RequirePermission(auth.PermDelete), s.Delete)
		router.Post(PermissionsPath, auth.RequirePermission(auth.PermCreate), s.AssignPermissions)
		router.Put(PermissionsPath, auth.RequirePermission(auth.PermUpdate), s.ReplacePermissions)
	})
}

func (s *Service) conn(c *fiber.Ctx) *gorm.DB {
	return s.db.WithContext(c.UserContext())
}

func notFound(id uint) error {
	return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Role with ID [%d] does not exist.", id))
}

// Create handles POST /roles.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	role, err := controller.Create(s.conn(c), req.Name, req.Description, catalogIDs(req.PermissionIDs))
	if errors.Is(err, controller.ErrRoleNameInUse) {
		log.Warn().Str("name", req.Name).Msg("Role name already in use")
		return fiber.NewError(fiber.StatusConflict, msgNameInUse)
	}

	if err != nil {
		return handler.Internal(err, "Error creating the role.")
	}

	log.Info().Uint("role_id", role.ID).Msg("Role created")

	return handler.Reply(c, fiber.StatusCreated, fmt.Sprintf("Role with name [%s] created successfully.", role.Name), role)
}

// List handles GET /roles.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.PageFrom(c, s.cfg.Webserver.MaxPageSize), c.Query("name"))
	if err != nil {
		return handler.Internal(err, "Error retrieving all roles.")
	}

	return c.JSON(res)
}

// Export handles GET /roles/export.
func (s *Service) Export(c *fiber.Ctx) error {
	res, err := controller.All(s.conn(c), handler.ExportPage(c), c.Query("name"))
	if err != nil {
		return handler.Internal(err, "Error exporting roles.")
	}

	return export.Send(c, "roles.xlsx", export.Roles(res.Rows))
}

// Get handles GET /roles/:id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	role, err := controller.Find(s.conn(c), id)
	if errors.Is(err, controller.ErrRoleNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error getting the role.")
	}

	return c.JSON(role)
}

// Update handles PUT /roles/:id.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	req := new(updateRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	role, err := controller.Edit(s.conn(c), id, req.Name, req.Description)

	switch {
	case errors.Is(err, controller.ErrRoleNotFound):
		return notFound(id)
	case errors.Is(err, controller.ErrRoleNameInUse):
		return fiber.NewError(fiber.StatusConflict, msgNameInUse)
	case err != nil:
		return handler.Internal(err, "Error modifying the role.")
	}

	log.Info().Uint("role_id", role.ID).Msg("Role modified")

	return handler.Reply(c, fiber.StatusOK, fmt.Sprintf("Role with name [%s] has been successfully modified.", role.Name), role)
}

// Delete handles DELETE /roles/:id.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	db := s.conn(c)

	existing, err := controller.Find(db, id)
	if errors.Is(err, controller.ErrRoleNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, "Error deleting the role.")
	}

	deleted, err := controller.Delete(db, existing)

	switch {
	case errors.Is(err, controller.ErrRoleHasPermissions):
		log.Warn().Uint("role_id", id).Int("permissions", len(existing.Permissions)).Msg("Role delete blocked")
		return fiber.NewError(fiber.StatusConflict, MsgRoleHasPermissions)
	case errors.Is(err, controller.ErrRoleNotFound):
		return notFound(id)
	case err != nil:
		return handler.Internal(err, "Error deleting the role.")
	}

	log.Info().Uint("role_id", id).Msg("Role deleted")

	return handler.Reply(c, fiber.StatusOK, fmt.Sprintf("Role with name [%s] has been deleted.", deleted.Name), deleted)
}

// AssignPermissions handles POST /roles/:id/permissions.
func (s *Service) AssignPermissions(c *fiber.Ctx) error {
	return s.reconcile(c, controller.AssignAdditional,
		"Permissions assigned to role with ID %d", "Error assigning permissions to the role.")
}

// ReplacePermissions handles PUT /roles/:id/permissions.
func (s *Service) ReplacePermissions(c *fiber.Ctx) error {
	return s.reconcile(c, controller.ReplacePermissions,
		"Permissions updated for role with ID %d", "Error updating role permissions.")
}

// catalogIDs drops ids that can never name a permission, like unknown ids.
func catalogIDs(ids []int64) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, uint(id))
		}
	}

	return out
}

type reconcileFunc func(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error)

func (s *Service) reconcile(c *fiber.Ctx, fn reconcileFunc, okMsg, errMsg string) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	req := new(permissionsRequest)
	if err := s.validator.Bind(c, req); err != nil {
		return err
	}

	role, err := fn(s.conn(c), id, catalogIDs(req.PermissionIDs))
	if errors.Is(err, controller.ErrRoleNotFound) {
		return notFound(id)
	}

	if err != nil {
		return handler.Internal(err, errMsg)
	}

	log.Info().Uint("role_id", id).Strs("permissions", role.PermissionNames()).Msg("Role permissions changed")

	return handler.Reply(c, fiber.StatusOK, fmt.Sprintf(okMsg, id), role)
}
