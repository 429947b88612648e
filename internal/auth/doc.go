// Package auth provides authentication and authorization functionality for the application.
//
// # Authentication
//
// LocalProvider checks an email and password against the users table, passwords
// are stored as Argon2id hashes. A successful login is answered with a signed
// JWT (HS512) carrying the user id. Authenticate is the fiber middleware that
// validates the bearer token of every protected request and stores the user,
// loaded with its role and the role's permissions, in fiber.Locals.
//
// # Authorization
//
// A user has at most one role and a role holds a set of permissions. The
// permission catalog consists of the five actions Create, Read, Update,
// Delete and List. RequirePermission gates a route on one action: the request
// passes only when the role of the current user holds a permission with that
// name. A user without a role holds no permissions.
//
// Example usage:
//
//	authService := auth.NewService(db, cfg.JWT)
//
//	app.Post("/auth/login", loginHandler)
//	app.Use(auth.Authenticate(authService))
//
//	app.Delete("/roles/:id",
//	    auth.RequirePermission(auth.PermDelete),
//	    handler,
//	)
package auth
