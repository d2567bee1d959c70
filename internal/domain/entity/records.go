package entity

import "time"

// RawMaterial registro de materia prima disponible (kg). Admite valores negativos como ajuste.
type RawMaterial struct {
	ID         string
	Date       time.Time
	EggType    string
	QuantityKg int64
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time

	CreatedByName string
}

// StatusLog registro de un cambio de estado de un pedido.
type StatusLog struct {
	ID          string
	OrderID     string
	UserID      string // vacío si lo hizo el sistema
	FromStatus  string
	ToStatus    string
	Description string
	CreatedAt   time.Time

	OrderNumber int64
	UserName    string
}

// Tipos de evento de notificación.
const (
	EventInfo            = "INFO"
	EventOrderCreated    = "PEDIDO_CREADO"
	EventOrderConfirmed  = "PEDIDO_CONFIRMADO"
	EventOrderCancelled  = "PEDIDO_CANCELADO"
	EventOrderReturned   = "PEDIDO_DEVUELTO"
	EventOrderStatusEdit = "PEDIDO_CAMBIO_ESTADO"
)

// Notification notificación para un usuario.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	EventType string
	PlaySound bool
	Read      bool
	CreatedAt time.Time
}
