// Package errorhandler renders handler errors as API envelopes.
package errorhandler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
	"github.com/authstarter/go-auth-starter/internal/users"
	"github.com/authstarter/go-auth-starter/internal/web/handler/request"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

// Messages of mapped domain errors.
const (
	MsgUserNotFound = "User not found."
	MsgEmailTaken   = "The email has already been taken."
	MsgInvalidRole  = "The selected role is invalid."
	MsgSelfDelete   = "You can not delete your own account."
	MsgNoIDs        = "The ids field is required."
)

// Handle is the fiber.ErrorHandler of the API. Domain errors map to their
// kind, everything unknown is logged and answered with a generic 500.
func Handle(c *fiber.Ctx, err error) error {
	return Map(err).Write(c)
}

// Map converts err to a response error.
func Map(err error) *response.Error {
	var (
		respErr  *response.Error
		fiberErr *fiber.Error
		missing  *users.MissingError
	)

	switch {
	case errors.As(err, &respErr):
		return respErr
	case errors.As(err, &fiberErr):
		return fromFiber(fiberErr)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return response.NewError(response.KindBadCredentials, response.MsgBadCredentials).
			WithField("email", response.MsgBadCredentials)
	case errors.Is(err, auth.ErrInvalidCurrentPassword):
		return response.NewError(response.KindValidation, response.MsgBadCredentials).
			WithField("current_password", response.MsgBadCredentials)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		return response.NewError(response.KindAuthRequired, response.MsgUnauthenticated)
	case errors.Is(err, role.ErrInvalidRole):
		return response.NewError(response.KindInvalidRole, MsgInvalidRole).
			WithField("role", MsgInvalidRole)
	case errors.As(err, &missing):
		e := response.NewError(response.KindNotFound, MsgUserNotFound)
		for _, id := range missing.IDs {
			e.WithField("ids", idMessage(id))
		}

		return e
	case errors.Is(err, models.ErrUserNotFound):
		return response.NewError(response.KindNotFound, MsgUserNotFound)
	case errors.Is(err, models.ErrEmailTaken):
		return response.NewError(response.KindValidation, request.MsgInvalidData).
			WithField("email", MsgEmailTaken)
	case errors.Is(err, users.ErrSelfDelete):
		return response.NewError(response.KindValidation, MsgSelfDelete).
			WithField("ids", MsgSelfDelete)
	case errors.Is(err, users.ErrNoIDs):
		return response.NewError(response.KindValidation, request.MsgInvalidData).
			WithField("ids", MsgNoIDs)
	default:
		log.Error().Err(err).Msg("unhandled request error")

		return &response.Error{Kind: response.KindInternal, Message: response.MsgServerError, Err: err}
	}
}

func fromFiber(e *fiber.Error) *response.Error {
	switch e.Code {
	case fiber.StatusNotFound:
		return response.NewError(response.KindNotFound, e.Message)
	case fiber.StatusUnauthorized:
		return response.NewError(response.KindAuthRequired, response.MsgUnauthenticated)
	case fiber.StatusForbidden:
		return response.NewError(response.KindForbidden, e.Message)
	case fiber.StatusTooManyRequests:
		return response.NewError(response.KindTooManyRequests, response.MsgTooManyRequests)
	case fiber.StatusUnprocessableEntity, fiber.StatusBadRequest:
		return response.NewError(response.KindValidation, e.Message)
	default:
		if e.Code >= fiber.StatusInternalServerError {
			log.Error().Err(e).Msg("server error")

			return response.NewError(response.KindInternal, response.MsgServerError)
		}

		// other client errors (405, 413, ...) keep their status
		return &response.Error{Kind: response.KindValidation, Status: e.Code, Message: e.Message, Err: e}
	}
}

func idMessage(id uint64) string {
	return "User " + strconv.FormatUint(id, 10) + " does not exist."
}
