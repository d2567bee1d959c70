package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// SessionCookie cookie que guarda el token tras el login por formulario.
const SessionCookie = "forecast_session"

// Authenticator valida un token y devuelve el usuario vigente.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// tokenFrom lee el Bearer token o, si no hay cabecera, la cookie de sesión.
func tokenFrom(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return strings.TrimSpace(c.Cookies(SessionCookie)), true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AuthMiddleware exige un usuario autenticado y activo y deja el actor en c.Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := tokenFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "autenticación requerida"})
		}
		user, err := auth.Authenticate(c.UserContext(), token)
		switch {
		case errors.Is(err, domain.ErrInactiveUser):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		case err != nil:
			return err
		}
		c.Locals(LocalActor, access.FromUser(user))
		return c.Next()
	}
}

// RequireAdmin solo administradores o superusuarios.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !access.IsAdmin(GetActor(c)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol administrador"})
		}
		return c.Next()
	}
}
