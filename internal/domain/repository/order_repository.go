package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// OrderFilter filtros combinables para consultas de pedidos. Los campos vacíos no filtran.
type OrderFilter struct {
	Statuses       []string
	EggTypes       []string
	SupplierID     string
	City           string
	EggType        string
	Presentation   string
	Status         string
	CreatedOn      *time.Time // fecha de creación (día)
	Week           *time.Time // lunes de la semana
	DeliveryFrom   *time.Time
	DeliveryTo     *time.Time
	Year           int    // año de creación
	CommercialRole string // rol del comercial que creó el pedido
	Limit          int
}

// MonthlyTotal kg agregados por mes (1..12) y, si aplica, estado.
type MonthlyTotal struct {
	Month  int
	Status string
	Kg     decimal.Decimal
}

// PendingDelivery entrega programada pendiente, con datos del pedido para calendario y resumen diario.
type PendingDelivery struct {
	DeliveryID   string
	OrderID      string
	OrderNumber  int64
	SupplierName string
	City         string
	EggType      string
	Presentation string
	Date         time.Time
	Quantity     int64
}

// OrderRepository puerto de persistencia de pedidos y sus entregas.
type OrderRepository interface {
	// Create persiste el pedido y sus entregas; asigna ID, Number y CreatedAt.
	Create(ctx context.Context, o *entity.Order) error
	// GetByID devuelve el pedido con entregas y nombres de proveedor/comercial.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update actualiza los datos del pedido y reemplaza sus entregas.
	Update(ctx context.Context, o *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	// Delete elimina el pedido junto con entregas y registros de estado.
	Delete(ctx context.Context, id string) error
	// List pedidos con entregas, ordenados por semana, fecha de entrega y número.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// MonthlyTotals cantidad efectiva por mes de creación y estado.
	MonthlyTotals(ctx context.Context, filter OrderFilter) ([]MonthlyTotal, error)
	// Weeks semanas distintas (más reciente primero) con pedidos en los estados dados.
	Weeks(ctx context.Context, statuses []string, limit int) ([]time.Time, error)
	// Years años de creación distintos (descendente) con pedidos en los estados dados.
	Years(ctx context.Context, statuses []string) ([]int, error)
	// PendingDeliveries entregas pendientes, opcionalmente acotadas a [from, to].
	PendingDeliveries(ctx context.Context, from, to *time.Time) ([]PendingDelivery, error)
}
