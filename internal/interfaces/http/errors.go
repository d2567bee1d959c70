package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: los errores más específicos van primero.
var errorMappings = []errorMapping{
	{domain.ErrWeakPassword, fiber.StatusBadRequest, "WEAK_PASSWORD"},
	{domain.ErrPasswordMismatch, fiber.StatusBadRequest, "PASSWORD_MISMATCH"},
	{domain.ErrInvalidWeek, fiber.StatusBadRequest, "INVALID_WEEK"},
	{domain.ErrDeliveriesOutsideWeek, fiber.StatusBadRequest, "DELIVERIES_OUTSIDE_WEEK"},
	{domain.ErrDeliveriesMismatch, fiber.StatusBadRequest, "DELIVERIES_MISMATCH"},
	{domain.ErrSupplierUnavailable, fiber.StatusBadRequest, "SUPPLIER_UNAVAILABLE"},
	{domain.ErrMissingCity, fiber.StatusBadRequest, "MISSING_CITY"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrDescriptionRequired, fiber.StatusBadRequest, "DESCRIPTION_REQUIRED"},
	{domain.ErrZeroQuantity, fiber.StatusBadRequest, "ZERO_QUANTITY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInactiveUser, fiber.StatusForbidden, "INACTIVE_USER"},
	{domain.ErrSelfDelete, fiber.StatusForbidden, "SELF_DELETE"},
	{domain.ErrStatusNotAllowed, fiber.StatusForbidden, "STATUS_NOT_ALLOWED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
}

// errorResponse traduce un error a estado HTTP y cuerpo. Los errores
// desconocidos son 500 y solo exponen el detalle si debug está activo.
func errorResponse(err error, debug bool) (int, dto.ErrorResponse) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		out := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			out.Message = verr.Kind.Error()
			out.Details = verr.Fields
		}
		return m.status, out
	}
	msg := "error interno del servidor"
	if debug {
		msg = err.Error()
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: msg}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "ERROR"
}

// NewErrorHandler manejador de errores de Fiber: todo error devuelto por un
// handler termina aquí como dto.ErrorResponse.
func NewErrorHandler(debug bool, log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err, debug)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}

func badBody() error {
	return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
}
