package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/db/models"
)

const (
	// LocalsCurrentUser is the fiber.Locals key of the authenticated *models.User.
	LocalsCurrentUser = "CurrentUser"
	// LocalsUserID is the fiber.Locals key of the authenticated user id, read by the access log.
	LocalsUserID = "user_id"

	bearerPrefix = "Bearer "

	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden: You don't have permission to access this resource"
)

var deniedCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Number of requests rejected by the permission gate, by required permission.",
	},
	[]string{"permission"},
)

// Authenticate creates Fiber middleware that validates the bearer token and stores
// the user with its role and permissions in fiber.Locals.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c)
		}

		claims, err := authService.ParseToken(token)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected bearer token")
			return unauthorized(c)
		}

		principal, err := authService.Principal(authService.db.WithContext(c.UserContext()), claims.UserID)
		if errors.Is(err, user.ErrUserNotFound) {
			log.Warn().Uint("user_id", claims.UserID).Msg("Token refers to unknown user")
			return unauthorized(c)
		}

		if err != nil {
			log.Error().Err(err).Uint("user_id", claims.UserID).Msg("Failed to load user")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
		}

		c.Locals(LocalsCurrentUser, principal)
		c.Locals(LocalsUserID, principal.ID)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires the current user's role
// to hold the named permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := CurrentUser(c)
		if err != nil {
			log.Error().Err(err).Str("permission", permission).Msg("Permission gate without authentication")
			deniedCounter.WithLabelValues(permission).Inc()

			return unauthorized(c)
		}

		if !principal.Role.HasPermission(permission) {
			log.Warn().Uint("user_id", principal.ID).Str("permission", permission).
				Msg("User lacks required permission")
			deniedCounter.WithLabelValues(permission).Inc()

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": msgForbidden})
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	principal, ok := c.Locals(LocalsCurrentUser).(*models.User)
	if !ok || principal == nil {
		return nil, ErrNoPrincipal
	}

	return principal, nil
}

func bearerToken(header string) (string, error) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingToken
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msgUnauthorized})
}
