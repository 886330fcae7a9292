// Package response writes the JSON envelope every API endpoint answers with:
//
//	{"success": true, "message": "...", "data": {...}}
//	{"success": false, "message": "...", "errors": {"field": ["..."]}}
package response

import (
	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failed request.
type Kind string

// Failure kinds and the status they answer with, see Status.
const (
	KindAuthRequired    Kind = "AUTH_REQUIRED"
	KindBadCredentials  Kind = "BAD_CREDENTIALS"
	KindInvalidRoleSpec Kind = "INVALID_ROLE_SPEC"
	KindForbidden       Kind = "FORBIDDEN"
	KindFeatureDisabled Kind = "FEATURE_DISABLED"
	KindInvalidRole     Kind = "INVALID_ROLE"
	KindValidation      Kind = "VALIDATION_FAILED"
	KindNotFound        Kind = "NOT_FOUND"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindInternal        Kind = "INTERNAL"
)

// Messages shared by more than one component.
const (
	MsgUnauthenticated         = "Unauthenticated."
	MsgInvalidRoleSpecified    = "Invalid role specified."
	MsgInsufficientPermissions = "Insufficient permissions."
	MsgBadCredentials          = "The provided credentials are incorrect."
	MsgTooManyRequests         = "Too many attempts. Please try again later."
	MsgServerError             = "Server Error."
)

var statusByKind = map[Kind]int{ //nolint:gochecknoglobals
	KindAuthRequired:    fiber.StatusUnauthorized,
	KindBadCredentials:  fiber.StatusUnauthorized,
	KindInvalidRoleSpec: fiber.StatusForbidden,
	KindForbidden:       fiber.StatusForbidden,
	KindFeatureDisabled: fiber.StatusForbidden,
	KindInvalidRole:     fiber.StatusUnprocessableEntity,
	KindValidation:      fiber.StatusUnprocessableEntity,
	KindNotFound:        fiber.StatusNotFound,
	KindTooManyRequests: fiber.StatusTooManyRequests,
	KindInternal:        fiber.StatusInternalServerError,
}

// Status returns the HTTP status of a kind, 500 for unknown kinds.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}

	return fiber.StatusInternalServerError
}

// Fields maps an input field to its messages.
type Fields map[string][]string

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  Fields `json:"errors,omitempty"`
}

// OK writes a success envelope.
func OK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the status of kind.
func Fail(c *fiber.Ctx, kind Kind, message string, fields Fields) error {
	return c.Status(kind.Status()).JSON(Envelope{Success: false, Message: message, Errors: fields})
}

// Error is a failure returned by a handler and rendered by the app's error handler.
type Error struct {
	Kind    Kind
	Message string
	Fields  Fields
	Status  int   // overrides the status of Kind when set
	Err     error // cause, logged but never sent
}

// NewError creates an Error without a cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithField adds a message for field.
func (e *Error) WithField(field, message string) *Error {
	if e.Fields == nil {
		e.Fields = Fields{}
	}

	e.Fields[field] = append(e.Fields[field], message)

	return e
}

// Error implements error.
func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}

	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Write renders e.
func (e *Error) Write(c *fiber.Ctx) error {
	if e.Status != 0 {
		return c.Status(e.Status).JSON(Envelope{Success: false, Message: e.Message, Errors: e.Fields})
	}

	return Fail(c, e.Kind, e.Message, e.Fields)
}
