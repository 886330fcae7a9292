package models

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when another user already owns the email address.
	ErrEmailTaken = errors.New("email has already been taken")
)
