package repository

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// SupplierFilter filtros de listado. Limit 0 = sin límite.
type SupplierFilter struct {
	City       string
	Search     string // nombre contiene, sin distinguir mayúsculas
	ActiveOnly bool
	Limit      int
	Offset     int
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	// Create devuelve domain.ErrDuplicate si el nombre ya existe.
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	// Delete elimina el proveedor y, en cascada, sus pedidos.
	Delete(ctx context.Context, id string) error
	// List devuelve la página pedida y el total de registros que cumplen el filtro.
	List(ctx context.Context, filter SupplierFilter) ([]*entity.Supplier, int, error)
}
