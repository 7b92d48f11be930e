// Package auth answers authorization questions and authenticates local users.
//
// # Authorization
//
// A user holds roles and every role holds permissions. The effective
// permissions of a user are the union of the permissions of all its roles.
// Checks compare permission names exactly; there are no wildcards and no
// hierarchy. Every check reads the current database state, nothing is cached,
// so a revoked permission is gone with the next call.
//
// The Service type provides:
//   - EffectivePermissions: sorted, de-duplicated permission names of a user
//   - HasPermission, HasAnyPermission, HasAllPermissions
//   - Roles and HasRole
//
// # Middleware
//
// RequirePermission, RequireAnyPermission and RequireAllPermissions protect
// fiber routes. They expect the authenticated user id in fiber.Locals under
// LocalsUserID, which the web session middleware sets.
//
// # Passwords
//
// Argon2id hashes new passwords. Verify also accepts bcrypt hashes so that
// accounts imported from other systems can log in; LocalProvider re-hashes
// those with Argon2id after a successful login.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	ok, err := authService.HasPermission(ctx, userID, auth.PermEditRole)
//
//	app.Put("/api/roles/:id",
//	    auth.RequirePermission(authService, auth.PermEditRole),
//	    handler,
//	)
package auth
