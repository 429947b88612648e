// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/applytrack/applytrack/internal/db/models"
)

// Open returns a migrated in-memory SQLite database that is closed with the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection to :memory: is a fresh, empty database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db), "failed to migrate test database")

	return db
}

// SeedPermissions inserts permissions with the given names in order, so the
// first name gets ID 1.
func SeedPermissions(t testing.TB, db *gorm.DB, names ...string) []models.Permission {
	t.Helper()

	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		p := models.Permission{Name: name}
		require.NoError(t, db.Create(&p).Error, "failed to seed permission %s", name)
		perms = append(perms, p)
	}

	return perms
}

// SeedRole inserts a role holding the given permissions.
func SeedRole(t testing.TB, db *gorm.DB, name string, perms ...models.Permission) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error, "failed to seed role %s", name)

	for _, p := range perms {
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: p.ID}).Error)
	}

	return role
}

// SeedUser inserts a user with an argon2id hashed password and the optional role.
func SeedUser(t testing.TB, db *gorm.DB, email, password string, role *models.Role) *models.User {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Name: email, Email: email, Password: hash}
	if role != nil {
		user.RoleID = &role.ID
	}

	require.NoError(t, db.Create(user).Error, "failed to seed user %s", email)

	return user
}
