package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y entregas programadas sobre PostgreSQL (pool o tx).
type OrderRepo struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// effectiveQty cantidad total si es positiva; si no, la cantidad.
const effectiveQty = `CASE WHEN o.total_quantity > 0 THEN o.total_quantity ELSE o.quantity END`

const orderSelect = `
	SELECT o.id, o.number, o.supplier_id, COALESCE(o.commercial_id::text, ''), o.city, o.egg_type,
		o.presentation, o.quantity, o.total_quantity, o.delivery_date, o.week, o.status, o.notes, o.created_at,
		s.name, COALESCE(c.first_name, ''), COALESCE(c.last_name, ''), COALESCE(c.username, '')
	FROM orders o
	JOIN suppliers s ON s.id = o.supplier_id
	LEFT JOIN users c ON c.id = o.commercial_id`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var commercial entity.User
	err := row.Scan(&o.ID, &o.Number, &o.SupplierID, &o.CommercialID, &o.City, &o.EggType,
		&o.Presentation, &o.Quantity, &o.TotalQuantity, &o.DeliveryDate, &o.Week, &o.Status, &o.Notes, &o.CreatedAt,
		&o.SupplierName, &commercial.FirstName, &commercial.LastName, &commercial.Username)
	if err != nil {
		return nil, err
	}
	if o.CommercialID != "" {
		o.CommercialName = commercial.DisplayName()
	}
	return &o, nil
}

// Create persiste el pedido y sus entregas; asigna ID, Number y CreatedAt.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO orders (id, supplier_id, commercial_id, city, egg_type, presentation, quantity,
			total_quantity, delivery_date, week, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING number, created_at`,
		o.ID, o.SupplierID, nullableID(o.CommercialID), o.City, o.EggType, o.Presentation, o.Quantity,
		o.TotalQuantity, o.DeliveryDate, o.Week, o.Status, o.Notes,
	).Scan(&o.Number, &o.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertDeliveries(ctx, o)
}

func (r *OrderRepo) insertDeliveries(ctx context.Context, o *entity.Order) error {
	for i := range o.Deliveries {
		d := &o.Deliveries[i]
		d.ID = uuid.New().String()
		d.OrderID = o.ID
		if d.Status == "" {
			d.Status = entity.DeliveryPending
		}
		if _, err := r.q.Exec(ctx,
			`INSERT INTO deliveries (id, order_id, date, quantity, status) VALUES ($1, $2, $3, $4, $5)`,
			d.ID, d.OrderID, d.Date, d.Quantity, d.Status,
		); err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}
	}
	return nil
}

// GetByID pedido con entregas; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachDeliveries(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update actualiza el pedido y reemplaza sus entregas.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	if !validID(o.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET supplier_id = $2, commercial_id = $3, city = $4, egg_type = $5, presentation = $6,
			quantity = $7, total_quantity = $8, delivery_date = $9, week = $10, status = $11, notes = $12
		WHERE id = $1`,
		o.ID, o.SupplierID, nullableID(o.CommercialID), o.City, o.EggType, o.Presentation,
		o.Quantity, o.TotalQuantity, o.DeliveryDate, o.Week, o.Status, o.Notes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM deliveries WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete deliveries: %w", err)
	}
	return r.insertDeliveries(ctx, o)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete entregas y registros se eliminan en cascada (FK).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// orderWhere traduce el filtro a condiciones sobre o (orders) y c (comercial).
func orderWhere(f repository.OrderFilter) *where {
	w := &where{}
	if len(f.Statuses) > 0 {
		w.add("o.status = ANY(%s)", f.Statuses)
	}
	if len(f.EggTypes) > 0 {
		w.add("o.egg_type = ANY(%s)", f.EggTypes)
	}
	if f.SupplierID != "" {
		if !validID(f.SupplierID) {
			w.clauses = append(w.clauses, "FALSE")
		} else {
			w.add("o.supplier_id = %s", f.SupplierID)
		}
	}
	if f.City != "" {
		w.add("o.city = %s", f.City)
	}
	if f.EggType != "" {
		w.add("o.egg_type = %s", f.EggType)
	}
	if f.Presentation != "" {
		w.add("o.presentation = %s", f.Presentation)
	}
	if f.Status != "" {
		w.add("o.status = %s", f.Status)
	}
	if f.CreatedOn != nil {
		w.add("o.created_at::date = %s::date", *f.CreatedOn)
	}
	if f.Week != nil {
		w.add("o.week = %s::date", *f.Week)
	}
	if f.DeliveryFrom != nil {
		w.add("o.delivery_date >= %s::date", *f.DeliveryFrom)
	}
	if f.DeliveryTo != nil {
		w.add("o.delivery_date <= %s::date", *f.DeliveryTo)
	}
	if f.Year != 0 {
		w.add("EXTRACT(YEAR FROM o.created_at)::int = %s", f.Year)
	}
	if f.CommercialRole != "" {
		w.add("c.role = %s", f.CommercialRole)
	}
	return w
}

// List pedidos con entregas, ordenados por semana, fecha de entrega y número.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	w := orderWhere(f)
	query := orderSelect + w.sql() + ` ORDER BY o.week NULLS LAST, o.delivery_date NULLS LAST, o.number`
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	out := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachDeliveries(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachDeliveries carga las entregas de todos los pedidos en una sola consulta.
func (r *OrderRepo) attachDeliveries(ctx context.Context, list []*entity.Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.Order, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, date, quantity, status
		FROM deliveries WHERE order_id = ANY($1)
		ORDER BY date, id`, ids)
	if err != nil {
		return fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Date, &d.Quantity, &d.Status); err != nil {
			return fmt.Errorf("scan delivery: %w", err)
		}
		if o, ok := byID[d.OrderID]; ok {
			o.Deliveries = append(o.Deliveries, d)
		}
	}
	return rows.Err()
}

// MonthlyTotals cantidad efectiva por mes de creación y estado.
func (r *OrderRepo) MonthlyTotals(ctx context.Context, f repository.OrderFilter) ([]repository.MonthlyTotal, error) {
	w := orderWhere(f)
	query := `
		SELECT EXTRACT(MONTH FROM o.created_at)::int AS month, o.status, SUM(` + effectiveQty + `)::numeric
		FROM orders o
		LEFT JOIN users c ON c.id = o.commercial_id` + w.sql() + `
		GROUP BY month, o.status
		ORDER BY month, o.status`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthlyTotal
	for rows.Next() {
		var m repository.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Status, &m.Kg); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Weeks semanas distintas, la más reciente primero. limit 0 = todas.
func (r *OrderRepo) Weeks(ctx context.Context, statuses []string, limit int) ([]time.Time, error) {
	var w where
	w.clauses = append(w.clauses, "week IS NOT NULL")
	if len(statuses) > 0 {
		w.add("status = ANY(%s)", statuses)
	}
	query := `SELECT DISTINCT week FROM orders` + w.sql() + ` ORDER BY week DESC`
	if limit > 0 {
		query += " LIMIT " + w.arg(limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	weeks, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan weeks: %w", err)
	}
	return weeks, nil
}

// Years años de creación, descendente.
func (r *OrderRepo) Years(ctx context.Context, statuses []string) ([]int, error) {
	var w where
	if len(statuses) > 0 {
		w.add("status = ANY(%s)", statuses)
	}
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT EXTRACT(YEAR FROM created_at)::int AS year FROM orders`+w.sql()+` ORDER BY year DESC`,
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	years, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan years: %w", err)
	}
	return years, nil
}

// PendingDeliveries entregas pendientes entre from y to (ambos opcionales).
func (r *OrderRepo) PendingDeliveries(ctx context.Context, from, to *time.Time) ([]repository.PendingDelivery, error) {
	var w where
	w.add("d.status = %s", entity.DeliveryPending)
	if from != nil {
		w.add("d.date >= %s::date", *from)
	}
	if to != nil {
		w.add("d.date <= %s::date", *to)
	}
	rows, err := r.q.Query(ctx, `
		SELECT d.id, o.id, o.number, s.name, o.city, o.egg_type, o.presentation, d.date, d.quantity
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		JOIN suppliers s ON s.id = o.supplier_id`+w.sql()+`
		ORDER BY d.date, o.number`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("pending deliveries: %w", err)
	}
	defer rows.Close()
	var out []repository.PendingDelivery
	for rows.Next() {
		var p repository.PendingDelivery
		if err := rows.Scan(&p.DeliveryID, &p.OrderID, &p.OrderNumber, &p.SupplierName, &p.City,
			&p.EggType, &p.Presentation, &p.Date, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan pending delivery: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
