package daemon

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/logger"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(t.TempDir(), "applytrack.db"),
		},
		Seed: config.Seed{
			AdminName:     "Admin",
			AdminEmail:    "admin@admin.com",
			AdminPassword: "admin",
		},
	}
}

func TestDialector(t *testing.T) {
	tests := []struct {
		engine  string
		name    string
		wantErr bool
	}{
		{engine: config.EngineMySQL, name: "mysql"},
		{engine: config.EnginePostgres, name: "postgres"},
		{engine: config.EngineSQLite, name: "sqlite"},
		{engine: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			d, err := Dialector(&config.Config{DB: config.DB{GormEngine: tt.engine, Name: "applytrack"}})
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownEngine)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestSlowQueryThreshold(t *testing.T) {
	assert.Equal(t, DefaultSlowQueryThreshold, SlowQueryThreshold(logger.Log{}))
	assert.Equal(t, DefaultSlowQueryThreshold, SlowQueryThreshold(logger.Log{SlowQueryThreshold: -5}))
	assert.Equal(t, 750*time.Millisecond, SlowQueryThreshold(logger.Log{SlowQueryThreshold: 750}))
}

func TestOpenDBSeeds(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	var perms []models.Permission
	require.NoError(t, db.Order("id").Find(&perms).Error)
	require.Len(t, perms, len(auth.AllPermissions()))
	assert.Equal(t, auth.PermCreate, perms[0].Name)

	admin, err := user.Principal(db, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin@admin.com", admin.Email)
	require.NotNil(t, admin.Role)
	assert.Equal(t, AdminRole, admin.Role.Name)
	assert.ElementsMatch(t, auth.AllPermissions(), admin.Role.PermissionNames())
	assert.True(t, admin.VerifyPassword("admin"))

	// a second start leaves the seeded data alone
	require.NoError(t, seed(cfg, db))

	var roles, users int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), roles)
	assert.Equal(t, int64(1), users)
}

func TestSeedWithoutAdminEmail(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Seed = config.Seed{}

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
