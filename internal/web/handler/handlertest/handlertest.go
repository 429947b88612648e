// Package handlertest wires handlers into a fiber app backed by an in-memory database for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/dbtest"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/web/handler"
)

// MaxPageSize is the page size cap configured for test apps.
const MaxPageSize = 50

// Env is a fiber app with its database and auth service.
type Env struct {
	App     *fiber.App
	DB      *gorm.DB
	Auth    *auth.Service
	Cfg     *config.Config
	Catalog []models.Permission

	users int
}

// New mounts services behind the authentication middleware.
func New(t testing.TB, services ...handler.Service) *Env {
	t.Helper()

	return newEnv(t, true, services)
}

// NewPublic mounts services without authentication.
func NewPublic(t testing.TB, services ...handler.Service) *Env {
	t.Helper()

	return newEnv(t, false, services)
}

func newEnv(t testing.TB, authenticate bool, services []handler.Service) *Env {
	t.Helper()

	db := dbtest.Open(t)

	cfg := &config.Config{
		Title: "applytrack-test",
		JWT:   config.JWT{Secret: "handler-test", Issuer: "applytrack", ExpiryTime: time.Hour},
		Webserver: config.Webserver{
			Port:        8080,
			URL:         "http://localhost:8080",
			MaxPageSize: MaxPageSize,
		},
	}

	env := &Env{
		App:     fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler}),
		DB:      db,
		Auth:    auth.NewService(db, cfg.JWT),
		Cfg:     cfg,
		Catalog: dbtest.SeedPermissions(t, db, auth.AllPermissions()...),
	}

	if authenticate {
		env.App.Use(auth.Authenticate(env.Auth))
	}

	for _, s := range services {
		s.Init(env.App, cfg, db, env.Auth)
	}

	return env
}

// Token creates a user whose role grants perms and returns its Authorization header value.
// Without perms the user has no role at all.
func (e *Env) Token(t testing.TB, perms ...string) string {
	t.Helper()

	e.users++

	var role *models.Role

	if len(perms) > 0 {
		granted := make([]models.Permission, 0, len(perms))
		for _, p := range e.Catalog {
			for _, name := range perms {
				if p.Name == name {
					granted = append(granted, p)
				}
			}
		}

		role = dbtest.SeedRole(t, e.DB, fmt.Sprintf("test-role-%d", e.users), granted...)
	}

	u := dbtest.SeedUser(t, e.DB, fmt.Sprintf("user%d@example.com", e.users), "secret", role)

	token, _, err := e.Auth.IssueToken(u.ID)
	require.NoError(t, err)

	return "Bearer " + token
}

// Do sends a request with an optional JSON body and Authorization header.
func (e *Env) Do(t testing.TB, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)

			raw = string(b)
		}

		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// Decode reads the JSON body of resp into out.
func Decode(t testing.TB, resp *http.Response, out any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// Envelope is the decoded {message,data} response.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// List is the decoded {data,count} response.
type List[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}
