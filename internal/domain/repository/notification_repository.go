package repository

import (
	"context"

	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
)

// NotificationRepository puerto de persistencia de notificaciones.
type NotificationRepository interface {
	// CreateForUsers crea una copia de n para cada usuario.
	CreateForUsers(ctx context.Context, userIDs []string, n entity.Notification) error
	// Prune conserva las keep notificaciones más recientes de cada usuario.
	// Con userIDs vacío aplica a todos. Devuelve cuántas se eliminaron.
	Prune(ctx context.Context, userIDs []string, keep int) (int64, error)
	ListUnread(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// LatestSound última notificación con sonido del usuario, o nil.
	LatestSound(ctx context.Context, userID string) (*entity.Notification, error)
	DeleteByUser(ctx context.Context, userID string) error
}
