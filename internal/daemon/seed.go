package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/controller/permission"
	"github.com/applytrack/applytrack/internal/db/controller/role"
	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/db/models"
)

// AdminRole is the role created on first start, holding the whole catalog.
const AdminRole = "Admin"

// seed creates the permission catalog, the admin role and the admin user.
// Records that already exist are left untouched.
func seed(cfg *config.Config, db *gorm.DB) error {
	catalog, err := permission.Ensure(db, auth.AllPermissions()...)
	if err != nil {
		return err
	}

	admin, err := adminRole(db, catalog)
	if err != nil {
		return err
	}

	if cfg.Seed.AdminEmail == "" {
		return nil
	}

	if _, err = user.FindByEmail(db, cfg.Seed.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	u := &models.User{
		Name:   cfg.Seed.AdminName,
		Email:  cfg.Seed.AdminEmail,
		RoleID: &admin.ID,
	}

	if err = user.Create(db, u, cfg.Seed.AdminPassword); err != nil {
		return err
	}

	log.Warn().Str("email", u.Email).Msg("admin user created, change its password")

	return nil
}

func adminRole(db *gorm.DB, catalog []models.Permission) (*models.Role, error) {
	var existing models.Role

	err := db.Where("name = ?", AdminRole).First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ids := make([]uint, 0, len(catalog))
	for _, p := range catalog {
		ids = append(ids, p.ID)
	}

	return role.Create(db, AdminRole, "Full access", ids)
}
