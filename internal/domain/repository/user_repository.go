package repository

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// UserFilter filtros para listar usuarios.
type UserFilter struct {
	Role       string
	ActiveOnly bool
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetBy* devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	// ListActiveIDs IDs de usuarios activos (destinatarios de notificaciones globales).
	ListActiveIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, user *entity.User) error
	// Delete devuelve domain.ErrInUse si el usuario tiene pedidos asociados.
	Delete(ctx context.Context, id string) error
}
