package orders

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(orders repository.OrderRepository, logs repository.StatusLogRepository) error) error
}

// Notifier reparte eventos de pedidos a los usuarios.
type Notifier interface {
	Broadcast(ctx context.Context, ev ordering.StatusEvent) error
}
