package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/application/usecase"
)

// OrderHandler pedidos y materia prima.
type OrderHandler struct {
	svc *orders.Service
	raw *usecase.RawMaterialUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc *orders.Service, raw *usecase.RawMaterialUseCase) *OrderHandler {
	return &OrderHandler{svc: svc, raw: raw}
}

// bindOrder lee el pedido desde JSON o desde un formulario con filas
// fecha_entrega[] / cantidad[].
func bindOrder(c *fiber.Ctx) (dto.OrderRequest, error) {
	var in dto.OrderRequest
	if err := c.BodyParser(&in); err != nil {
		return in, badBody()
	}
	if c.Is("json") {
		return in, nil
	}
	dates := formValues(c, "fecha_entrega[]")
	qtys := formValues(c, "cantidad[]")
	for i, d := range dates {
		row := dto.DeliveryRow{Date: d}
		if i < len(qtys) {
			row.Quantity = dto.Quantity(qtys[i])
		}
		in.Deliveries = append(in.Deliveries, row)
	}
	return in, nil
}

// Table godoc
// @Summary      Tablero de pedidos activos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        proveedor       query  string  false  "ID del proveedor"
// @Param        ciudad          query  string  false  "Ciudad"
// @Param        tipo_huevo      query  string  false  "Tipo de huevo"
// @Param        presentacion    query  string  false  "Presentación"
// @Param        estado          query  string  false  "Estado"
// @Param        fecha_creacion  query  string  false  "YYYY-MM-DD"
// @Param        semana          query  string  false  "YYYY-MM-DD"
// @Param        fecha_desde     query  string  false  "YYYY-MM-DD"
// @Param        fecha_hasta     query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.OrderTableResponse
// @Router       /api/pedidos/tablas [get]
func (h *OrderHandler) Table(c *fiber.Ctx) error {
	out, err := h.svc.Table(c.UserContext(), orderQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// orderQuery lee los filtros comunes sin fallar por valores mal formados.
func orderQuery(c *fiber.Ctx) dto.OrderListQuery {
	return dto.OrderListQuery{
		SupplierID:   c.Query("proveedor"),
		City:         c.Query("ciudad"),
		EggType:      c.Query("tipo_huevo"),
		Presentation: c.Query("presentacion"),
		Status:       c.Query("estado"),
		CreatedOn:    c.Query("fecha_creacion"),
		Week:         c.Query("semana"),
		DeliveryFrom: c.Query("fecha_desde"),
		DeliveryTo:   c.Query("fecha_hasta"),
	}
}

// NewForm godoc
// @Summary      Datos para el formulario de nuevo pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderFormResponse
// @Router       /api/pedidos/formulario [get]
func (h *OrderHandler) NewForm(c *fiber.Ctx) error {
	out, err := h.svc.Form(c.UserContext(), GetActor(c), "")
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// EditForm godoc
// @Summary      Datos para editar un pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderFormResponse
// @Router       /api/pedidos/{id}/formulario [get]
func (h *OrderHandler) EditForm(c *fiber.Ctx) error {
	out, err := h.svc.Form(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido semanal
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderRequest  true  "Pedido y entregas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pedidos [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	in, err := bindOrder(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar pedido
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del pedido"
// @Param        body  body  dto.OrderRequest  true  "Pedido y entregas"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	in, err := bindOrder(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// StatusForm godoc
// @Summary      Datos para cambiar el estado de un pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del pedido"
// @Param        next  query  string  false  "Destino"
// @Success      200   {object}  dto.StatusFormResponse
// @Router       /api/pedidos/{id}/estado [get]
func (h *OrderHandler) StatusForm(c *fiber.Ctx) error {
	out, err := h.svc.StatusForm(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	out.Next = ResolveNext(c.Query("next"), DefaultStatusNext)
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de un pedido
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ChangeStatusRequest  true  "estado, descripcion_estado, next"
// @Success      200   {object}  dto.ChangeStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/estado [post]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	if in.Next == "" {
		in.Next = c.Query("next")
	}
	order, err := h.svc.ChangeStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChangeStatusResponse{Order: *order, Next: ResolveNext(in.Next, DefaultStatusNext)})
}

// MarkDelivered godoc
// @Summary      Marcar pedido como entregado
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/realizado [post]
func (h *OrderHandler) MarkDelivered(c *fiber.Ctx) error {
	out, err := h.svc.MarkDelivered(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido (solo administradores)
// @Tags         pedidos
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RawMaterials godoc
// @Summary      Últimos registros de materia prima
// @Tags         materia-prima
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RawMaterialResponse
// @Router       /api/pedidos/materia-prima [get]
func (h *OrderHandler) RawMaterials(c *fiber.Ctx) error {
	out, err := h.raw.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateRawMaterial godoc
// @Summary      Registrar materia prima
// @Tags         materia-prima
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RawMaterialRequest  true  "fecha, tipo_huevo, cantidad_kg"
// @Success      201   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pedidos/materia-prima [post]
func (h *OrderHandler) CreateRawMaterial(c *fiber.Ctx) error {
	var in dto.RawMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody()
	}
	out, err := h.raw.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
