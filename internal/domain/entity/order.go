package entity

import "time"

// Estados del pedido.
const (
	StatusPending      = "PENDIENTE"
	StatusConfirmed    = "CONFIRMADO"
	StatusInProduction = "EN_PRODUCCION"
	StatusDispatched   = "DESPACHADO"
	StatusDelivered    = "ENTREGADO"
	StatusCancelled    = "CANCELADO"
	StatusReturned     = "DEVUELTO"
)

// OrderStatuses catálogo de estados en orden de flujo.
var OrderStatuses = []Choice{
	{StatusPending, "Pendiente"},
	{StatusConfirmed, "Confirmado"},
	{StatusInProduction, "En producción"},
	{StatusDispatched, "Despachado"},
	{StatusDelivered, "Entregado"},
	{StatusCancelled, "Cancelado"},
	{StatusReturned, "Devuelto"},
}

// Estados de una entrega programada.
const (
	DeliveryPending   = "PENDIENTE"
	DeliveryDelivered = "ENTREGADO"
)

// Order pedido semanal de un comercial a un proveedor.
type Order struct {
	ID            string
	Number        int64 // consecutivo visible (#N)
	SupplierID    string
	CommercialID  string
	City          string
	EggType       string
	Presentation  string
	Quantity      int64
	TotalQuantity int64
	DeliveryDate  *time.Time // fecha de la última entrega programada
	Week          *time.Time // lunes de la semana
	Status        string
	Notes         string
	CreatedAt     time.Time
	Deliveries    []Delivery

	// Solo lectura (joins).
	SupplierName   string
	CommercialName string
}

// EffectiveQuantity cantidad total si es mayor que cero; si no, la cantidad.
func (o *Order) EffectiveQuantity() int64 {
	if o.TotalQuantity > 0 {
		return o.TotalQuantity
	}
	return o.Quantity
}

// Delivery entrega programada de un pedido.
type Delivery struct {
	ID       string
	OrderID  string
	Date     time.Time
	Quantity int64
	Status   string
}
