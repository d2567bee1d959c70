package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

var _ repository.StatusLogRepository = (*StatusLogRepo)(nil)

// StatusLogRepo registros de cambio de estado sobre PostgreSQL.
type StatusLogRepo struct {
	q Querier
}

func NewStatusLogRepository(q Querier) *StatusLogRepo {
	return &StatusLogRepo{q: q}
}

const statusLogSelect = `
	SELECT l.id, l.order_id, COALESCE(l.user_id::text, '') AS user_id, l.from_status, l.to_status,
		l.description, l.created_at, o.number, COALESCE(u.first_name, '') AS first_name,
		COALESCE(u.last_name, '') AS last_name, COALESCE(u.username, '') AS username
	FROM status_logs l
	JOIN orders o ON o.id = l.order_id
	LEFT JOIN users u ON u.id = l.user_id`

func scanStatusLog(row pgx.Row) (*entity.StatusLog, error) {
	var l entity.StatusLog
	var u entity.User
	if err := row.Scan(&l.ID, &l.OrderID, &l.UserID, &l.FromStatus, &l.ToStatus, &l.Description, &l.CreatedAt,
		&l.OrderNumber, &u.FirstName, &u.LastName, &u.Username); err != nil {
		return nil, err
	}
	if l.UserID != "" {
		l.UserName = u.DisplayName()
	}
	return &l, nil
}

func (r *StatusLogRepo) Create(ctx context.Context, l *entity.StatusLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO status_logs (id, order_id, user_id, from_status, to_status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		l.ID, l.OrderID, nullableID(l.UserID), l.FromStatus, l.ToStatus, l.Description,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}

func (r *StatusLogRepo) collect(rows pgx.Rows) ([]*entity.StatusLog, error) {
	defer rows.Close()
	var out []*entity.StatusLog
	for rows.Next() {
		l, err := scanStatusLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// List más recientes primero; devuelve la página y el total.
func (r *StatusLogRepo) List(ctx context.Context, f repository.StatusLogFilter) ([]*entity.StatusLog, int, error) {
	var w where
	if f.UserID != "" {
		if !validID(f.UserID) {
			return nil, 0, nil
		}
		w.add("l.user_id = %s", f.UserID)
	}
	if f.Date != nil {
		w.add("l.created_at::date = %s::date", *f.Date)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM status_logs l`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count status logs: %w", err)
	}
	query := statusLogSelect + w.sql() + ` ORDER BY l.created_at DESC`
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list status logs: %w", err)
	}
	out, err := r.collect(rows)
	return out, total, err
}

// LatestByOrders último registro hacia alguno de toStatuses por pedido.
func (r *StatusLogRepo) LatestByOrders(ctx context.Context, orderIDs, toStatuses []string) (map[string]*entity.StatusLog, error) {
	out := map[string]*entity.StatusLog{}
	if len(orderIDs) == 0 {
		return out, nil
	}
	var w where
	w.add("l.order_id = ANY(%s)", orderIDs)
	if len(toStatuses) > 0 {
		w.add("l.to_status = ANY(%s)", toStatuses)
	}
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (order_id) * FROM (`+statusLogSelect+w.sql()+`) latest
		ORDER BY order_id, created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("latest status logs: %w", err)
	}
	list, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, l := range list {
		out[l.OrderID] = l
	}
	return out, nil
}

// Users usuarios con al menos un registro, por username.
func (r *StatusLogRepo) Users(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id IN (SELECT DISTINCT user_id FROM status_logs WHERE user_id IS NOT NULL)
		ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("status log users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
