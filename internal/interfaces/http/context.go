package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/domain/access"
)

// Claves de c.Locals.
const (
	LocalActor     = "actor"
	LocalRequestID = "requestid"
)

// GetActor usuario autenticado (después de AuthMiddleware).
func GetActor(c *fiber.Ctx) access.Actor {
	a, _ := c.Locals(LocalActor).(access.Actor)
	return a
}

// GetUserID id del usuario autenticado o "".
func GetUserID(c *fiber.Ctx) string { return GetActor(c).UserID }

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}
