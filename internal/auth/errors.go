package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email or password do not match a user.
	// Both cases share one error so a caller cannot probe for registered emails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when a token fails signature, expiry or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidSigningMethod is returned for tokens not signed with HMAC.
	ErrInvalidSigningMethod = errors.New("unexpected signing method")

	// ErrNoPrincipal is returned when no authenticated user is stored in the request context.
	ErrNoPrincipal = errors.New("no authenticated user in context")
)
