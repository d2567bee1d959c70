package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo notificaciones por usuario sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, user_id, message, event_type, play_sound, is_read, created_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.EventType, &n.PlaySound, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateForUsers inserta una copia de n por usuario en una sola sentencia.
func (r *NotificationRepo) CreateForUsers(ctx context.Context, userIDs []string, n entity.Notification) error {
	if len(userIDs) == 0 {
		return nil
	}
	ids := make([]string, len(userIDs))
	for i := range ids {
		ids[i] = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, message, event_type, play_sound)
		SELECT id, user_id, $3, $4, $5
		FROM UNNEST($1::uuid[], $2::uuid[]) AS t(id, user_id)`,
		ids, userIDs, n.Message, n.EventType, n.PlaySound,
	)
	if err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// Prune conserva las keep más recientes por usuario.
func (r *NotificationRepo) Prune(ctx context.Context, userIDs []string, keep int) (int64, error) {
	var w where
	if len(userIDs) > 0 {
		w.add("user_id = ANY(%s::uuid[])", userIDs)
	}
	tag, err := r.q.Exec(ctx, `
		DELETE FROM notifications WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY created_at DESC, id DESC) AS rn
				FROM notifications`+w.sql()+`
			) ranked WHERE rn > `+w.arg(keep)+`
		)`, w.args...)
	if err != nil {
		return 0, fmt.Errorf("prune notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepo) ListUnread(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	if !validID(userID) {
		return nil, nil
	}
	var w where
	w.add("user_id = %s", userID)
	w.clauses = append(w.clauses, "NOT is_read")
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.sql() + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += " LIMIT " + w.arg(limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var out []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}

// LatestSound última notificación con sonido; (nil, nil) si no hay.
func (r *NotificationRepo) LatestSound(ctx context.Context, userID string) (*entity.Notification, error) {
	if !validID(userID) {
		return nil, nil
	}
	n, err := scanNotification(r.q.QueryRow(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = $1 AND play_sound
		ORDER BY created_at DESC LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest sound notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepo) DeleteByUser(ctx context.Context, userID string) error {
	if !validID(userID) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}
