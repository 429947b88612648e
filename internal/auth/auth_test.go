package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/dbtest"
	"github.com/applytrack/applytrack/internal/db/models"
)

const testSecret = "test-secret"

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)

	return NewService(db, config.JWT{Secret: testSecret, Issuer: "applytrack", ExpiryTime: time.Hour}), db
}

// seedUsers creates a user whose role holds the given permissions and a user without role.
func seedUsers(t *testing.T, db *gorm.DB, perms ...string) (*models.User, *models.User) {
	t.Helper()

	catalog := dbtest.SeedPermissions(t, db, AllPermissions()...)

	granted := make([]models.Permission, 0, len(perms))
	for _, p := range catalog {
		for _, name := range perms {
			if p.Name == name {
				granted = append(granted, p)
			}
		}
	}

	role := dbtest.SeedRole(t, db, "Tester", granted...)

	return dbtest.SeedUser(t, db, "member@example.com", "secret", role),
		dbtest.SeedUser(t, db, "norole@example.com", "secret", nil)
}

func TestLogin(t *testing.T) {
	svc, db := newService(t)
	member, _ := seedUsers(t, db, PermRead, PermList)

	sess, err := svc.Login(db, "member@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, []string{PermRead, PermList}, sess.Permissions)

	claims, err := svc.ParseToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, claims.UserID)
	assert.Equal(t, "applytrack", claims.Issuer)

	_, err = svc.Login(db, "member@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(db, "ghost@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err = svc.Login(db, "norole@example.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, sess.Permissions)
}

func TestParseToken(t *testing.T) {
	svc, _ := newService(t)

	valid, _, err := svc.IssueToken(7)
	require.NoError(t, err)

	expiredSvc := NewService(nil, config.JWT{Secret: testSecret, Issuer: "applytrack", ExpiryTime: time.Hour})
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredSvc.IssueToken(7)
	require.NoError(t, err)

	otherSecret := NewService(nil, config.JWT{Secret: "other", Issuer: "applytrack"})
	forged, _, err := otherSecret.IssueToken(7)
	require.NoError(t, err)

	otherIssuer := NewService(nil, config.JWT{Secret: testSecret, Issuer: "someone-else"})
	foreign, _, err := otherIssuer.IssueToken(7)
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "applytrack",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: forged, wantErr: true},
		{name: "wrong issuer", token: foreign, wantErr: true},
		{name: "wrong algorithm", token: hs256, wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := svc.ParseToken(tc.token)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, uint(7), claims.UserID)
		})
	}
}

func newGatedApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(svc))
	app.Delete("/roles/:id", RequirePermission(PermDelete), func(c *fiber.Ctx) error {
		return c.SendString("deleted")
	})
	app.Get("/roles", RequirePermission(PermList), func(c *fiber.Ctx) error {
		return c.SendString("listed")
	})

	return app
}

func TestRequirePermission(t *testing.T) {
	svc, db := newService(t)
	member, orphan := seedUsers(t, db, PermList)

	admin := dbtest.SeedUser(t, db, "admin@example.com", "secret",
		dbtest.SeedRole(t, db, "Admin", func() []models.Permission {
			var all []models.Permission
			require.NoError(t, db.Find(&all).Error)
			return all
		}()...))

	token := func(u *models.User) string {
		tok, _, err := svc.IssueToken(u.ID)
		require.NoError(t, err)

		return "Bearer " + tok
	}

	app := newGatedApp(svc)

	testCases := []struct {
		name       string
		method     string
		path       string
		auth       string
		wantStatus int
	}{
		{name: "no token", method: http.MethodGet, path: "/roles", wantStatus: fiber.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, path: "/roles", auth: "Token abc", wantStatus: fiber.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, path: "/roles", auth: "Bearer abc", wantStatus: fiber.StatusUnauthorized},
		{name: "list allowed", method: http.MethodGet, path: "/roles", auth: token(member), wantStatus: fiber.StatusOK},
		{name: "delete denied without Delete", method: http.MethodDelete, path: "/roles/1", auth: token(member), wantStatus: fiber.StatusForbidden},
		{name: "delete allowed with Delete", method: http.MethodDelete, path: "/roles/1", auth: token(admin), wantStatus: fiber.StatusOK},
		{name: "user without role denied", method: http.MethodGet, path: "/roles", auth: token(orphan), wantStatus: fiber.StatusForbidden},
		{name: "lowercase bearer", method: http.MethodGet, path: "/roles", auth: "bearer " + token(member)[len("Bearer "):], wantStatus: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.auth)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequirePermissionDeletedRole(t *testing.T) {
	svc, db := newService(t)
	member, _ := seedUsers(t, db, PermList)

	require.NoError(t, db.Delete(&models.Role{}, *member.RoleID).Error)

	tok, _, err := svc.IssueToken(member.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)

	resp, err := newGatedApp(svc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionWithoutAuthenticate(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequirePermission(PermRead), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDeletedUserIsUnauthorized(t *testing.T) {
	svc, db := newService(t)
	member, _ := seedUsers(t, db, PermList)

	tok, _, err := svc.IssueToken(member.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, member.ID).Error)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)

	resp, err := newGatedApp(svc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
