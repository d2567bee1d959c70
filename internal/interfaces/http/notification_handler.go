package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
)

// NotificationHandler notificaciones del usuario autenticado.
type NotificationHandler struct {
	svc *notifications.Service
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(svc *notifications.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List godoc
// @Summary      Notificaciones no leídas (máximo 5) y total
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NotificationContext
// @Router       /api/notificaciones [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.Context(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Poll godoc
// @Summary      Último evento con sonido
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NotificationPoll
// @Router       /api/pedidos/notificaciones [get]
func (h *NotificationHandler) Poll(c *fiber.Ctx) error {
	out, err := h.svc.Poll(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Borrar mis notificaciones
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        next  formData  string  false  "Destino"
// @Success      200  {object}  dto.RedirectResponse
// @Router       /api/pedidos/notificaciones/limpiar [post]
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	var in dto.RedirectResponse
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody()
		}
	}
	if in.Next == "" {
		in.Next = c.FormValue("next")
	}
	if err := h.svc.Clear(c.UserContext(), GetUserID(c)); err != nil {
		return err
	}
	return c.JSON(dto.RedirectResponse{Next: ResolveNext(in.Next, DefaultLoginNext)})
}
