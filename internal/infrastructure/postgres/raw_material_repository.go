package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo movimientos de materia prima sobre PostgreSQL.
type RawMaterialRepo struct {
	q Querier
}

func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

func (r *RawMaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO raw_materials (id, date, egg_type, quantity_kg, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		m.ID, m.Date, m.EggType, m.QuantityKg, m.Notes, nullableID(m.CreatedBy),
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert raw material: %w", err)
	}
	return nil
}

// ListRecent por fecha y creación descendente.
func (r *RawMaterialRepo) ListRecent(ctx context.Context, limit int) ([]*entity.RawMaterial, error) {
	var w where
	query := `
		SELECT m.id, m.date, m.egg_type, m.quantity_kg, m.notes, COALESCE(m.created_by::text, ''), m.created_at,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.username, '')
		FROM raw_materials m
		LEFT JOIN users u ON u.id = m.created_by
		ORDER BY m.date DESC, m.created_at DESC`
	if limit > 0 {
		query += " LIMIT " + w.arg(limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()
	var out []*entity.RawMaterial
	for rows.Next() {
		var m entity.RawMaterial
		var u entity.User
		if err := rows.Scan(&m.ID, &m.Date, &m.EggType, &m.QuantityKg, &m.Notes, &m.CreatedBy, &m.CreatedAt,
			&u.FirstName, &u.LastName, &u.Username); err != nil {
			return nil, fmt.Errorf("scan raw material: %w", err)
		}
		if m.CreatedBy != "" {
			m.CreatedByName = u.DisplayName()
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// MonthlyTotals kg por mes del año (fecha del movimiento).
func (r *RawMaterialRepo) MonthlyTotals(ctx context.Context, year int) ([]repository.MonthlyTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM date)::int AS month, SUM(quantity_kg)::numeric
		FROM raw_materials
		WHERE EXTRACT(YEAR FROM date)::int = $1
		GROUP BY month
		ORDER BY month`, year)
	if err != nil {
		return nil, fmt.Errorf("raw material totals: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthlyTotal
	for rows.Next() {
		var m repository.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Kg); err != nil {
			return nil, fmt.Errorf("scan raw material total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
