// Package handler holds what the route handler packages share: their
// dependencies, feature gates and the client view of a user.
package handler
