package repository

import (
	"context"
	"time"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// StatusLogFilter filtros del listado de registros de estado.
type StatusLogFilter struct {
	UserID string
	Date   *time.Time
	Limit  int
	Offset int
}

// StatusLogRepository puerto de persistencia de registros de cambio de estado.
type StatusLogRepository interface {
	Create(ctx context.Context, log *entity.StatusLog) error
	// List más recientes primero; devuelve la página y el total.
	List(ctx context.Context, filter StatusLogFilter) ([]*entity.StatusLog, int, error)
	// LatestByOrders último registro hacia alguno de toStatuses para cada pedido.
	LatestByOrders(ctx context.Context, orderIDs []string, toStatuses []string) (map[string]*entity.StatusLog, error)
	// Users usuarios que tienen al menos un registro, ordenados por username.
	Users(ctx context.Context) ([]*entity.User, error)
}
