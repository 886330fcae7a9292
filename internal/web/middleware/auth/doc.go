// Package auth provides the bearer token middleware of the API.
//
// The middleware reads "Authorization: Bearer <id>|<secret>", verifies the
// token against the token store and stores the user and the token in
// fiber.Locals, see auth.UserFromContext. It never rejects a request itself.
package auth
