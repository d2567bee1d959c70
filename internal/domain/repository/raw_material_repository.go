package repository

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// RawMaterialRepository puerto de persistencia de materia prima.
type RawMaterialRepository interface {
	Create(ctx context.Context, r *entity.RawMaterial) error
	// ListRecent últimos registros (fecha y creación descendente).
	ListRecent(ctx context.Context, limit int) ([]*entity.RawMaterial, error)
	// MonthlyTotals kg por mes del año indicado.
	MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error)
}
