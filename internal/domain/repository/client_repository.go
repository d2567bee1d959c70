package repository

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// ClientRepository puerto de persistencia de clientes.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Client, error)
}
