// Package auth provides authentication and role based authorization.
//
// # Authentication
//
// LocalProvider registers users and verifies email and password against the
// database. Passwords are Argon2id hashed; bcrypt hashes imported from older
// systems are accepted and replaced by Argon2id on the next successful login.
//
// TokenStore issues opaque bearer tokens of the form "<id>|<secret>". Only the
// SHA-256 of the secret is stored. Tokens may expire and are revoked on
// logout and refresh.
//
// Service ties both together for the http handlers.
//
// # Authorization
//
// Every user carries exactly one role, see package role. RequireRole protects
// routes:
//
//	admin := api.Group("/admin", auth.RequireRole(resolver, "admin"))
//
// The checks run in a fixed order: no authenticated user is 401, a role name
// the registry doesn't know is 403 "Invalid role specified.", a user holding
// none of the roles is 403 "Insufficient permissions.". Several roles are
// OR-ed.
package auth
