package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email and password don't match a user.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")

	// ErrInvalidCurrentPassword is returned when a password change carries the wrong current password.
	ErrInvalidCurrentPassword = errors.New("the provided password does not match your current password")

	// ErrInvalidToken is returned for bearer tokens that are malformed, unknown or revoked.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for bearer tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)
