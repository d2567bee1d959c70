package dto

import (
	"time"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// DeliveryRow fila de entrega programada tal como llega del formulario.
type DeliveryRow struct {
	Date     string   `json:"fecha_entrega"`
	Quantity Quantity `json:"cantidad"`
}

// OrderRequest creación/edición de pedido. En creación el comercial es el usuario autenticado
// y Status se ignora.
type OrderRequest struct {
	SupplierID    string        `json:"proveedor" form:"proveedor" validate:"required"`
	CommercialID  string        `json:"comercial" form:"comercial"`
	EggType       string        `json:"tipo_huevo" form:"tipo_huevo" validate:"required,egg_type"`
	TotalQuantity Quantity      `json:"cantidad_total" form:"cantidad_total"`
	Week          string        `json:"semana" form:"semana"`
	Notes         string        `json:"observaciones" form:"observaciones" validate:"max=2000"`
	Status        string        `json:"estado" form:"estado"`
	Deliveries    []DeliveryRow `json:"entregas" form:"-"`
}

// ChangeStatusRequest cambio de estado de un pedido.
type ChangeStatusRequest struct {
	Status      string `json:"estado" form:"estado"`
	Description string `json:"descripcion_estado" form:"descripcion_estado" validate:"max=2000"`
	Next        string `json:"next" form:"next"`
}

// OrderListQuery filtros comunes de los tableros de pedidos.
type OrderListQuery struct {
	SupplierID   string `query:"proveedor"`
	City         string `query:"ciudad"`
	EggType      string `query:"tipo_huevo"`
	Presentation string `query:"presentacion"`
	Status       string `query:"estado"`
	CreatedOn    string `query:"fecha_creacion"`
	Week         string `query:"semana"`
	DeliveryFrom string `query:"fecha_desde"`
	DeliveryTo   string `query:"fecha_hasta"`
}

// DeliveryResponse entrega programada.
type DeliveryResponse struct {
	ID       string `json:"id"`
	Date     string `json:"fecha_entrega"`
	Quantity int64  `json:"cantidad"`
	Status   string `json:"estado"`
}

// OrderResponse salida de pedido.
type OrderResponse struct {
	ID                string             `json:"id"`
	Number            int64              `json:"numero"`
	SupplierID        string             `json:"proveedor_id"`
	SupplierName      string             `json:"proveedor"`
	CommercialID      string             `json:"comercial_id"`
	CommercialName    string             `json:"comercial"`
	City              string             `json:"ciudad"`
	CityLabel         string             `json:"ciudad_label"`
	EggType           string             `json:"tipo_huevo"`
	EggTypeLabel      string             `json:"tipo_huevo_label"`
	Presentation      string             `json:"presentacion"`
	PresentationLabel string             `json:"presentacion_label"`
	Quantity          int64              `json:"cantidad"`
	TotalQuantity     int64              `json:"cantidad_total"`
	EffectiveQuantity int64              `json:"cantidad_efectiva"`
	DeliveryDate      *string            `json:"fecha_entrega"`
	Week              *string            `json:"semana"`
	Status            string             `json:"estado"`
	StatusLabel       string             `json:"estado_label"`
	Notes             string             `json:"observaciones"`
	CreatedAt         time.Time          `json:"fecha_creacion"`
	Deliveries        []DeliveryResponse `json:"entregas"`
}

// ChangeStatusResponse pedido actualizado y destino saneado.
type ChangeStatusResponse struct {
	Order OrderResponse `json:"pedido"`
	Next  string        `json:"next"`
}

// OrderTableResponse tablero de pedidos activos (/pedidos/tablas).
type OrderTableResponse struct {
	Orders      []OrderResponse   `json:"pedidos"`
	Suppliers   []SupplierOption  `json:"proveedores"`
	Statuses    []entity.Choice   `json:"estados"`
	TotalLiquid int64             `json:"total_liquido"`
	TotalYolk   int64             `json:"total_yema"`
	TotalMix    int64             `json:"total_mezcla"`
	Filters     map[string]string `json:"filtros"`
}

// OrderFormResponse datos para construir el formulario de pedido.
type OrderFormResponse struct {
	Suppliers     []SupplierOption `json:"proveedores"`
	Commercials   []UserOption     `json:"comerciales"`
	EggTypes      []entity.Choice  `json:"tipos_huevo"`
	Presentations []entity.Choice  `json:"presentaciones"`
	Statuses      []entity.Choice  `json:"estados,omitempty"`
	Order         *OrderResponse   `json:"pedido,omitempty"`
}

// StatusFormResponse datos para el formulario de cambio de estado.
type StatusFormResponse struct {
	Order               OrderResponse   `json:"pedido"`
	Statuses            []entity.Choice `json:"estados"`
	RequiresDescription []string        `json:"estados_requieren_descripcion"`
	Next                string          `json:"next"`
}
