package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/api/http/response"
	"github.com/dtroode/photogallery-server/internal/model"
)

// errorStatus maps domain errors to an HTTP status and a client message.
// Internal details never reach the client.
func errorStatus(err error) (int, response.Message) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, response.MsgInvalidCredentials
	case errors.Is(err, model.ErrPrincipalNotFound):
		return fiber.StatusNotFound, response.MsgUserNotFound
	case errors.Is(err, model.ErrUnauthorized):
		return fiber.StatusUnauthorized, response.MsgUnauthorized
	case errors.Is(err, model.ErrSignatureInvalid),
		errors.Is(err, model.ErrAlgorithmMismatch),
		errors.Is(err, model.ErrMalformedToken),
		errors.Is(err, model.ErrClaimsInvalid),
		errors.Is(err, model.ErrTokenExpired):
		return fiber.StatusUnauthorized, response.MsgInvalidAccessToken
	case errors.Is(err, model.ErrRefreshTokenMismatch),
		errors.Is(err, model.ErrRefreshTokenExpired),
		errors.Is(err, model.ErrNoActiveSession):
		return fiber.StatusUnauthorized, response.MsgInvalidRefreshToken
	case errors.Is(err, model.ErrPasswordMismatch):
		return fiber.StatusBadRequest, response.MsgPasswordMismatch
	case errors.Is(err, model.ErrPrincipalExists):
		return fiber.StatusBadRequest, response.MsgPrincipalExists
	case errors.Is(err, model.ErrInvalidPassword),
		errors.Is(err, model.ErrInvalidInput):
		return fiber.StatusBadRequest, response.MsgInvalidRegistration
	case errors.Is(err, model.ErrInvalidPhoto):
		return fiber.StatusBadRequest, response.MsgInvalidPhoto
	case errors.Is(err, model.ErrForbidden):
		return fiber.StatusForbidden, response.MsgForbidden
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound, response.MsgNotFound
	case errors.Is(err, model.ErrPersistenceUnavailable):
		return fiber.StatusServiceUnavailable, response.MsgServiceUnavailable
	default:
		return fiber.StatusInternalServerError, response.MsgInternalError
	}
}

func handleError(c *fiber.Ctx, err error) error {
	status, msg := errorStatus(err)
	return response.Fail(c, status, msg)
}

// ErrorHandler renders errors that escape handlers, including fiber routing
// errors, as failure envelopes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return response.Fail(c, fiberErr.Code, response.MsgNotFound)
		case fiber.StatusUnauthorized:
			return response.Fail(c, fiberErr.Code, response.MsgUnauthorized)
		case fiber.StatusServiceUnavailable:
			return response.Fail(c, fiberErr.Code, response.MsgServiceUnavailable)
		}
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return response.Fail(c, fiberErr.Code, response.MsgInternalError)
		}
		return response.Fail(c, fiberErr.Code, response.MsgBadRequest)
	}
	return handleError(c, err)
}
